package teground

import (
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// SequenceFromInfoFile builds a Sequence from a MOTChallenge-style
// seqinfo.ini file. The [Sequence] section supplies the metadata:
//
//	name      sequence path (defaults to the ini file's directory)
//	seqLength timeline length in frames (required, positive)
//	imExt     presence marks an image set rather than a video
//	decoder   optional decoder name
//
// The returned sequence is unattached; append it to a DataFile to grow
// its tracks.
func SequenceFromInfoFile(path string) (*Sequence, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load sequence info %s: %w", path, err)
	}

	section := cfg.Section("Sequence")

	length, err := section.Key("seqLength").Int64()
	if err != nil {
		return nil, &ParseError{Path: "Sequence.seqLength", Message: "missing or non-numeric"}
	}
	if length <= 0 {
		return nil, &ParseError{Path: "Sequence.seqLength", Message: "must be positive"}
	}

	seqPath := section.Key("name").String()
	if seqPath == "" {
		seqPath = filepath.Dir(path)
	}

	kind := SequenceVideo
	if section.HasKey("imExt") {
		kind = SequenceImage
	}

	decoder := section.Key("decoder").String()

	return NewSequence(seqPath, decoder, kind, VideoTime(length)), nil
}
