package teground

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Node helpers
// ------------
//
// Persistence works at the yaml.Node level so documents keep their key
// order across round-trips.

func yamlChild(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func yamlString(node *yaml.Node, key string) (string, bool) {
	c := yamlChild(node, key)
	if c == nil || c.Kind != yaml.ScalarNode {
		return "", false
	}
	return c.Value, true
}

func yamlInt(node *yaml.Node, key string) (int64, bool) {
	c := yamlChild(node, key)
	if c == nil || c.Kind != yaml.ScalarNode {
		return 0, false
	}
	if v, err := strconv.ParseInt(c.Value, 10, 64); err == nil {
		return v, true
	}
	// Tolerate writers that emit whole numbers as floats.
	if f, err := strconv.ParseFloat(c.Value, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func intNode(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
}

func mapNode(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func seqYamlNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func mapAppend(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

func loadDocument(path, rootKey string) (*yaml.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Path: rootKey, Message: err.Error()}
	}
	if len(doc.Content) == 0 {
		return nil, &ParseError{Path: rootKey, Message: "empty document"}
	}
	root := yamlChild(doc.Content[0], rootKey)
	if root == nil {
		return nil, &ParseError{Path: rootKey, Message: "missing root key"}
	}
	return root, nil
}

func saveDocument(path string, doc *yaml.Node) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Segment persistence
// -------------------

func (s *Segment) readNode(node *yaml.Node) error {
	pos, ok := yamlInt(node, "Pos")
	if !ok {
		return &ParseError{Path: "Segment.Track.Children", Message: "missing Pos"}
	}
	length, ok := yamlInt(node, "Length")
	if !ok {
		return &ParseError{Path: "Segment.Track.Children", Message: "missing Length"}
	}
	s.position = VideoTime(pos)
	s.length = VideoTime(length)
	s.data, _ = yamlString(node, "Data")
	return nil
}

func (s *Segment) writeNode() *yaml.Node {
	m := mapNode()
	mapAppend(m, "Pos", intNode(int64(s.position)))
	mapAppend(m, "Length", intNode(int64(s.length)))
	mapAppend(m, "Data", strNode(s.data))
	return m
}

// SegmentTrack persistence
// ------------------------

// ReadNode replaces the track contents from a persisted track node.
func (t *SegmentTrack) ReadNode(node *yaml.Node) error {
	children := yamlChild(node, "Children")
	if children == nil || children.Kind != yaml.SequenceNode {
		return &ParseError{Path: "Segment.Track.Children", Message: "not a sequence"}
	}

	segments := make([]*Segment, 0, len(children.Content))
	for _, c := range children.Content {
		s := &Segment{}
		if err := s.readNode(c); err != nil {
			return err
		}
		segments = append(segments, s)
	}

	t.ClearSegments()
	for _, s := range segments {
		if _, err := t.InsertSegment(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteNode serializes the track tagged with its header index.
func (t *SegmentTrack) WriteNode(headerIndex int) (*yaml.Node, error) {
	children := seqYamlNode()
	for _, s := range t.segments {
		children.Content = append(children.Content, s.writeNode())
	}
	m := mapNode()
	mapAppend(m, "Header", intNode(int64(headerIndex)))
	mapAppend(m, "Children", children)
	return m, nil
}

// TrackHeader persistence
// -----------------------

func (h *TrackHeader) writeNode() *yaml.Node {
	m := mapNode()
	mapAppend(m, "Name", strNode(h.name))
	mapAppend(m, "Type", strNode(h.typ))
	return m
}

// DataFile persistence
// --------------------

// ReadFrom loads the data file from a YAML document rooted at "TeGround".
func (d *DataFile) ReadFrom(path string) error {
	root, err := loadDocument(path, "TeGround")
	if err != nil {
		return err
	}
	return d.Read(root)
}

// WriteTo persists the data file as a YAML document rooted at "TeGround".
func (d *DataFile) WriteTo(path string) error {
	doc, err := d.Write()
	if err != nil {
		return err
	}
	return saveDocument(path, doc)
}

// Read replaces the file contents from the "TeGround" node. On error the
// receiver is left unchanged.
func (d *DataFile) Read(node *yaml.Node) error {
	nodeTracks := yamlChild(node, "Tracks")
	if nodeTracks == nil || nodeTracks.Kind != yaml.SequenceNode {
		return &ParseError{Path: "TeGround.Tracks", Message: "not a sequence"}
	}

	headers := make([]*TrackHeader, 0, len(nodeTracks.Content))
	for _, trackNode := range nodeTracks.Content {
		typ, _ := yamlString(trackNode, "Type")
		fn := d.registry.makeFunc(typ)
		if fn == nil {
			return &UnknownTrackTypeError{Type: typ}
		}
		name, _ := yamlString(trackNode, "Name")
		headers = append(headers, newTrackHeader(typ, name, fn))
	}

	nodeSequences := yamlChild(node, "Sequences")
	if nodeSequences == nil || nodeSequences.Kind != yaml.SequenceNode {
		return &ParseError{Path: "TeGround.Sequences", Message: "not a sequence"}
	}

	sequences := make([]*Sequence, 0, len(nodeSequences.Content))
	for _, seqNode := range nodeSequences.Content {
		seqTracks := yamlChild(seqNode, "Tracks")
		if seqTracks == nil || seqTracks.Kind != yaml.SequenceNode {
			return &ParseError{Path: "TeGround.Sequences.Tracks", Message: "not a sequence"}
		}

		path, _ := yamlString(seqNode, "Path")
		decoder, _ := yamlString(seqNode, "Decoder")
		kind, _ := yamlString(seqNode, "Type")
		length, ok := yamlInt(seqNode, "Length")
		if !ok {
			return &ParseError{Path: "TeGround.Sequences", Message: "missing Length"}
		}

		seq := NewSequence(path, decoder, SequenceKindFromString(kind), VideoTime(length))
		for _, trackNode := range seqTracks.Content {
			headerIndex, ok := yamlInt(trackNode, "Header")
			if !ok || headerIndex < 0 || headerIndex >= int64(len(headers)) {
				return &OutOfBoundsError{
					Context: "header index",
					Value:   headerIndex,
					Limit:   int64(len(headers)),
				}
			}
			track := seq.appendTrack(headers[headerIndex])
			if err := track.ReadNode(trackNode); err != nil {
				return err
			}
		}
		sequences = append(sequences, seq)
	}

	d.headers = headers
	d.sequences = sequences
	return nil
}

// Write serializes the file to a document node holding the "TeGround" key.
func (d *DataFile) Write() (*yaml.Node, error) {
	tracks := seqYamlNode()
	for _, h := range d.headers {
		tracks.Content = append(tracks.Content, h.writeNode())
	}

	sequences := seqYamlNode()
	for _, seq := range d.sequences {
		seqTracks := seqYamlNode()
		for _, t := range seq.Tracks() {
			index := d.TrackIndex(t.Header())
			if index == len(d.headers) {
				return nil, &OutOfBoundsError{
					Context: "header index",
					Value:   int64(index),
					Limit:   int64(len(d.headers)),
				}
			}
			trackNode, err := t.WriteNode(index)
			if err != nil {
				return nil, err
			}
			seqTracks.Content = append(seqTracks.Content, trackNode)
		}

		m := mapNode()
		mapAppend(m, "Path", strNode(seq.Path()))
		mapAppend(m, "Type", strNode(seq.Kind().String()))
		mapAppend(m, "Length", intNode(int64(seq.Length())))
		mapAppend(m, "Decoder", strNode(seq.Decoder()))
		mapAppend(m, "Tracks", seqTracks)
		sequences.Content = append(sequences.Content, m)
	}

	body := mapNode()
	mapAppend(body, "Tracks", tracks)
	mapAppend(body, "Sequences", sequences)

	doc := mapNode()
	mapAppend(doc, "TeGround", body)
	return doc, nil
}
