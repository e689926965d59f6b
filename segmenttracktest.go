package teground

import (
	"runtime"

	"gopkg.in/yaml.v3"
)

// SegmentTrackTestType is the evaluator subtype tag for segment tracks.
const SegmentTrackTestType = "SegmentTrackTest"

// SegmentTrackTest evaluates emissions against the segments of one track,
// sequence by sequence. A cursor advances monotonically over
// (sequence, position); stamps and overlaps are matched against segments
// at or ahead of the cursor, and segments the cursor passes unclaimed are
// swept into Unmarked assertions.
//
// Within a sequence the assertion log is kept in canonical
// (position, length) order, not call order; subscribers observe insertions
// in call order.
type SegmentTrackTest struct {
	data   *DataFile
	header *TrackHeader

	cursorPosition VideoTime
	cursorSequence int
	cursorSegment  int

	// assertions is indexed by sequence, then by canonical log order.
	assertions [][]*SegmentAssertion

	// assertionCursor indexes into the current sequence's log: everything
	// before it belongs to segments already behind the time cursor.
	assertionCursor int

	subscribers []subscriberEntry
	nextHandle  SubscriberHandle
}

type subscriberEntry struct {
	handle SubscriberHandle
	sub    AssertionSubscriber
}

// NewSegmentTrackTest creates an evaluator for header over data. The
// header must be of the "Segment" track type.
func NewSegmentTrackTest(data *DataFile, header *TrackHeader) (*SegmentTrackTest, error) {
	if header.Type() != SegmentTrackType {
		return nil, &TypeMismatchError{Got: header.Type(), Want: SegmentTrackType}
	}
	return &SegmentTrackTest{
		data:       data,
		header:     header,
		assertions: make([][]*SegmentAssertion, data.SequenceCount()),
	}, nil
}

// newSegmentTrackTestFor has the TrackTestMakeFunc shape for suite
// registries.
func newSegmentTrackTestFor(data *DataFile, header *TrackHeader) (TrackTest, error) {
	return NewSegmentTrackTest(data, header)
}

// TrackHeader returns the header under evaluation.
func (t *SegmentTrackTest) TrackHeader() *TrackHeader { return t.header }

// Data returns the borrowed data file.
func (t *SegmentTrackTest) Data() *DataFile { return t.data }

// IsEnd reports whether the cursor has passed the last sequence. A data
// file with no sequences starts at end.
func (t *SegmentTrackTest) IsEnd() bool {
	return t.cursorSequence >= t.data.SequenceCount()
}

// CursorSequence returns the active sequence index; equal to the sequence
// count once the cursor is at end.
func (t *SegmentTrackTest) CursorSequence() int { return t.cursorSequence }

// CursorPosition returns the position within the active sequence.
func (t *SegmentTrackTest) CursorPosition() VideoTime { return t.cursorPosition }

// Assertions returns the recorded log for one sequence, in canonical
// order. The slice must not be mutated by the caller.
func (t *SegmentTrackTest) Assertions(sequenceIndex int) []*SegmentAssertion {
	return t.assertions[sequenceIndex]
}

// CountAssertions returns the number of recorded assertions with the given
// result, across all sequences.
func (t *SegmentTrackTest) CountAssertions(result AssertionResult) int {
	total := 0
	for _, log := range t.assertions {
		for _, a := range log {
			if a.result == result {
				total++
			}
		}
	}
	return total
}

// ClearAssertions drops every recorded assertion.
func (t *SegmentTrackTest) ClearAssertions() {
	t.assertions = make([][]*SegmentAssertion, t.data.SequenceCount())
	t.assertionCursor = 0
}

// Subscribers
// -----------

// AddSubscriber registers s and returns a handle for removal. Subscribers
// are notified synchronously, in registration order.
func (t *SegmentTrackTest) AddSubscriber(s AssertionSubscriber) SubscriberHandle {
	t.nextHandle++
	t.subscribers = append(t.subscribers, subscriberEntry{handle: t.nextHandle, sub: s})
	return t.nextHandle
}

// RemoveSubscriber deregisters the subscriber behind handle.
func (t *SegmentTrackTest) RemoveSubscriber(handle SubscriberHandle) {
	for i, e := range t.subscribers {
		if e.handle == handle {
			t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
			return
		}
	}
}

// Notify pushes an assertion to every subscriber, in registration order.
// The engine calls it for every insertion; external drivers may reuse it
// to replay a persisted log through the subscriber stream.
func (t *SegmentTrackTest) Notify(a *SegmentAssertion) {
	t.notifyInsert(a)
}

func (t *SegmentTrackTest) notifyInsert(a *SegmentAssertion) {
	for _, e := range t.subscribers {
		e.sub.OnAssertionInsert(a)
	}
}

func (t *SegmentTrackTest) notifySequence(seq *Sequence) {
	for _, e := range t.subscribers {
		e.sub.OnSequenceSet(seq)
	}
}

// Cursor operations
// -----------------

// AdvanceCursorPosition moves the cursor forward within the active
// sequence and sweeps segments in canonical order from the segment
// cursor: each segment whose end falls at or before the new position is
// recorded as an Unmarked assertion unless a prior assertion references
// it. The sweep stops at the first segment that still extends past the new
// position; segments after it are not swept by this call, even those that
// already ended. The caller's source location is attached to the swept
// assertions.
func (t *SegmentTrackTest) AdvanceCursorPosition(position VideoTime) error {
	file, line := callerSite()
	return t.AdvanceCursorPositionLoc(position, file, line)
}

// AdvanceCursorPositionLoc is AdvanceCursorPosition with an explicit
// source location.
func (t *SegmentTrackTest) AdvanceCursorPositionLoc(position VideoTime, file string, line int) error {
	if t.IsEnd() {
		return &CursorAtEndError{}
	}
	seq := t.data.SequenceAt(t.cursorSequence)
	if position >= seq.Length() {
		return &OutOfBoundsError{Context: "cursor position", Value: int64(position), Limit: int64(seq.Length())}
	}
	if position <= t.cursorPosition {
		return &CursorBackwardsError{From: int64(t.cursorPosition), To: int64(position)}
	}
	t.cursorPosition = position

	track := t.activeTrack()
	for t.cursorSegment < track.TotalSegments() {
		seg := track.At(t.cursorSegment)
		if seg.End() > t.cursorPosition {
			break
		}
		t.sweepSegment(seg, file, line)
		t.cursorSegment++
	}
	return nil
}

// AdvanceCursorSequence moves the cursor to the sequence at target,
// sweeping every traversed track to its end first, then restarts the
// cursor at position 0 of the new sequence. A target equal to the
// sequence count moves the cursor past the last sequence.
func (t *SegmentTrackTest) AdvanceCursorSequence(target int) error {
	file, line := callerSite()
	return t.AdvanceCursorSequenceLoc(target, file, line)
}

// AdvanceCursorSequenceLoc is AdvanceCursorSequence with an explicit
// source location.
func (t *SegmentTrackTest) AdvanceCursorSequenceLoc(target int, file string, line int) error {
	if t.IsEnd() {
		return &CursorAtEndError{}
	}
	if target <= t.cursorSequence {
		return &CursorBackwardsError{From: int64(t.cursorSequence), To: int64(target)}
	}
	if target > t.data.SequenceCount() {
		return &OutOfBoundsError{Context: "sequence index", Value: int64(target), Limit: int64(t.data.SequenceCount())}
	}

	for t.cursorSequence != target {
		track := t.activeTrack()
		for t.cursorSegment < track.TotalSegments() {
			t.sweepSegment(track.At(t.cursorSegment), file, line)
			t.cursorSegment++
		}
		t.cursorSequence++
		t.cursorSegment = 0
		t.assertionCursor = 0
	}

	t.cursorPosition = 0
	if !t.IsEnd() {
		t.notifySequence(t.data.SequenceAt(t.cursorSequence))
	}
	return nil
}

func (t *SegmentTrackTest) sweepSegment(seg *Segment, file string, line int) {
	if !t.isUnmarked(t.cursorSequence, seg) {
		return
	}
	t.insertAssertion(t.cursorSequence, &SegmentAssertion{
		position: seg.Position(),
		length:   seg.Length(),
		result:   ResultUnmarked,
		kind:     UnmarkedSegment,
		file:     file,
		line:     line,
		segment:  seg,
	})
}

// Stamp operations
// ----------------

// SingleStamp asserts a point emission at position. It matches the first
// segment containing position that has no prior assertion; a matched
// segment is claimed exclusively. The caller's source location is
// recorded.
func (t *SegmentTrackTest) SingleStamp(position VideoTime, info string) error {
	file, line := callerSite()
	return t.stamp(true, position, info, file, line)
}

// SingleStampLoc is SingleStamp with an explicit source location.
func (t *SegmentTrackTest) SingleStampLoc(position VideoTime, info, file string, line int) error {
	return t.stamp(true, position, info, file, line)
}

// MultiStamp asserts a point emission at position. It matches the first
// containing segment that is not exclusively claimed: a segment is skipped
// only when its first prior assertion is a SingleStamp or SingleOverlap.
func (t *SegmentTrackTest) MultiStamp(position VideoTime, info string) error {
	file, line := callerSite()
	return t.stamp(false, position, info, file, line)
}

// MultiStampLoc is MultiStamp with an explicit source location.
func (t *SegmentTrackTest) MultiStampLoc(position VideoTime, info, file string, line int) error {
	return t.stamp(false, position, info, file, line)
}

func (t *SegmentTrackTest) stamp(single bool, position VideoTime, info, file string, line int) error {
	if t.IsEnd() {
		return &CursorAtEndError{}
	}
	seq := t.data.SequenceAt(t.cursorSequence)
	if position >= seq.Length() {
		return &OutOfBoundsError{Context: "stamp position", Value: int64(position), Limit: int64(seq.Length())}
	}

	kind := SingleStamp
	if !single {
		kind = MultiStamp
	}

	track := t.activeTrack()
	si := t.cursorSegment
	for t.findStampCandidate(track, position, &si) {
		seg := track.At(si)
		if t.acceptSegment(single, seg) {
			t.insertAssertion(t.cursorSequence, &SegmentAssertion{
				position: position,
				length:   1,
				result:   ResultMatch,
				kind:     kind,
				info:     info,
				file:     file,
				line:     line,
				segment:  seg,
			})
			return nil
		}
		si++
	}

	t.insertAssertion(t.cursorSequence, &SegmentAssertion{
		position: position,
		length:   1,
		result:   ResultMiss,
		kind:     kind,
		info:     info,
		file:     file,
		line:     line,
	})
	return nil
}

// findStampCandidate advances *si to the next segment containing position,
// reporting false once candidates are exhausted. Segments starting past
// position end the scan.
func (t *SegmentTrackTest) findStampCandidate(track *SegmentTrack, position VideoTime, si *int) bool {
	for *si < track.TotalSegments() {
		seg := track.At(*si)
		if seg.Position() > position {
			return false
		}
		if seg.End() > position {
			return true
		}
		*si++
	}
	return false
}

// Overlap operations
// ------------------

// SingleOverlap asserts an interval emission [position, position+length)
// under params. It matches the first segment the predicate accepts that
// has no prior assertion; a matched segment is claimed exclusively. The
// caller's source location is recorded.
func (t *SegmentTrackTest) SingleOverlap(position, length VideoTime, params OverlapParameters, info string) error {
	file, line := callerSite()
	return t.overlap(true, position, length, params, info, file, line)
}

// SingleOverlapLoc is SingleOverlap with an explicit source location.
func (t *SegmentTrackTest) SingleOverlapLoc(position, length VideoTime, params OverlapParameters, info, file string, line int) error {
	return t.overlap(true, position, length, params, info, file, line)
}

// MultiOverlap asserts an interval emission that may share its matched
// segment with other multi claims, unless the segment's first prior
// assertion is a SingleStamp or SingleOverlap.
func (t *SegmentTrackTest) MultiOverlap(position, length VideoTime, params OverlapParameters, info string) error {
	file, line := callerSite()
	return t.overlap(false, position, length, params, info, file, line)
}

// MultiOverlapLoc is MultiOverlap with an explicit source location.
func (t *SegmentTrackTest) MultiOverlapLoc(position, length VideoTime, params OverlapParameters, info, file string, line int) error {
	return t.overlap(false, position, length, params, info, file, line)
}

func (t *SegmentTrackTest) overlap(single bool, position, length VideoTime, params OverlapParameters, info, file string, line int) error {
	if t.IsEnd() {
		return &CursorAtEndError{}
	}
	seq := t.data.SequenceAt(t.cursorSequence)
	if position >= seq.Length() {
		return &OutOfBoundsError{Context: "overlap position", Value: int64(position), Limit: int64(seq.Length())}
	}

	kind := SingleOverlap
	if !single {
		kind = MultiOverlap
	}

	track := t.activeTrack()
	si := t.cursorSegment
	for t.findOverlapCandidate(track, position, length, params, &si) {
		seg := track.At(si)
		if t.acceptSegment(single, seg) {
			t.insertAssertion(t.cursorSequence, &SegmentAssertion{
				position: position,
				length:   length,
				result:   ResultMatch,
				kind:     kind,
				info:     info,
				file:     file,
				line:     line,
				segment:  seg,
			})
			return nil
		}
		si++
	}

	t.insertAssertion(t.cursorSequence, &SegmentAssertion{
		position: position,
		length:   length,
		result:   ResultMiss,
		kind:     kind,
		info:     info,
		file:     file,
		line:     line,
	})
	return nil
}

// findOverlapCandidate advances *si to the next segment the predicate
// accepts. Segments starting at or past the assertion end stop the scan.
func (t *SegmentTrackTest) findOverlapCandidate(track *SegmentTrack, position, length VideoTime, params OverlapParameters, si *int) bool {
	for *si < track.TotalSegments() {
		seg := track.At(*si)
		if seg.Position() >= position+length {
			return false
		}
		if ok, _ := params.IsMatch(position, length, seg.Position(), seg.Length()); ok {
			return true
		}
		*si++
	}
	return false
}

// acceptSegment applies the single/multi claim filter: single claims need
// an untouched segment; multi claims are pre-empted only when the
// segment's first prior assertion is a single claim (SingleStamp or
// SingleOverlap).
func (t *SegmentTrackTest) acceptSegment(single bool, seg *Segment) bool {
	if single {
		return t.isUnmarked(t.cursorSequence, seg)
	}
	first := t.firstAssertionFor(t.cursorSequence, seg)
	return first == nil || (first.kind != SingleStamp && first.kind != SingleOverlap)
}

// Assertion log
// -------------

func (t *SegmentTrackTest) activeTrack() *SegmentTrack {
	return t.data.SequenceAt(t.cursorSequence).Track(t.header).(*SegmentTrack)
}

func (t *SegmentTrackTest) logStart(sequenceIndex int) int {
	if sequenceIndex == t.cursorSequence {
		return t.assertionCursor
	}
	return 0
}

func (t *SegmentTrackTest) isUnmarked(sequenceIndex int, seg *Segment) bool {
	log := t.assertions[sequenceIndex]
	for i := t.logStart(sequenceIndex); i < len(log); i++ {
		if log[i].segment == seg {
			return false
		}
	}
	return true
}

func (t *SegmentTrackTest) firstAssertionFor(sequenceIndex int, seg *Segment) *SegmentAssertion {
	log := t.assertions[sequenceIndex]
	for i := t.logStart(sequenceIndex); i < len(log); i++ {
		if log[i].segment == seg {
			return log[i]
		}
	}
	return nil
}

// insertAssertion places a into the sequence's log in canonical order,
// scanning from the assertion cursor. Unmarked entries advance the
// cursor past themselves; other entries leave it in place.
func (t *SegmentTrackTest) insertAssertion(sequenceIndex int, a *SegmentAssertion) {
	log := t.assertions[sequenceIndex]
	i := t.logStart(sequenceIndex)
	for ; i < len(log); i++ {
		if log[i].position > a.position {
			break
		}
		if log[i].position == a.position && log[i].length >= a.length {
			break
		}
	}

	log = append(log, nil)
	copy(log[i+1:], log[i:])
	log[i] = a
	t.assertions[sequenceIndex] = log

	if a.result == ResultUnmarked {
		t.assertionCursor = i + 1
	}
	t.notifyInsert(a)
}

// callerSite captures the file and line of the public API caller.
func callerSite() (string, int) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "", 0
	}
	return file, line
}

// Persistence
// -----------

// Write serializes the evaluator per the result-file format: header
// index, subtype tag and the per-sequence assertion logs.
func (t *SegmentTrackTest) Write() (*yaml.Node, error) {
	sequences := seqYamlNode()
	for index, log := range t.assertions {
		assertions := seqYamlNode()
		for _, a := range log {
			m := mapNode()
			mapAppend(m, "Type", strNode(a.kind.String()))
			mapAppend(m, "Result", strNode(a.result.String()))
			mapAppend(m, "Position", intNode(int64(a.position)))
			mapAppend(m, "Length", intNode(int64(a.length)))
			if a.HasInfo() {
				mapAppend(m, "Info", strNode(a.info))
			}
			if a.HasFile() {
				mapAppend(m, "File", strNode(a.file))
				mapAppend(m, "FileLine", intNode(int64(a.line)))
			}
			if a.HasSegment() {
				mapAppend(m, "SegmentPosition", intNode(int64(a.segment.Position())))
				mapAppend(m, "SegmentLength", intNode(int64(a.segment.Length())))
			}
			assertions.Content = append(assertions.Content, m)
		}

		entry := mapNode()
		mapAppend(entry, "Index", intNode(int64(index)))
		mapAppend(entry, "Assertions", assertions)
		sequences.Content = append(sequences.Content, entry)
	}

	m := mapNode()
	mapAppend(m, "Header", intNode(int64(t.data.TrackIndex(t.header))))
	mapAppend(m, "Type", strNode(SegmentTrackTestType))
	mapAppend(m, "Sequences", sequences)
	return m, nil
}

// Read replaces the recorded assertions from a persisted result node.
// Segment back-references are resolved against the data file; the cursor
// is left past the last sequence. On error the receiver is unchanged.
func (t *SegmentTrackTest) Read(node *yaml.Node) error {
	seqNode := yamlChild(node, "Sequences")
	if seqNode == nil || seqNode.Kind != yaml.SequenceNode {
		return &ParseError{Path: "SegmentTrackTest.Sequences", Message: "not a sequence"}
	}
	if len(seqNode.Content) != t.data.SequenceCount() {
		return &ParseError{
			Path:    "SegmentTrackTest.Sequences",
			Message: "sequence count differs between data file and result file",
		}
	}

	assertions := make([][]*SegmentAssertion, t.data.SequenceCount())
	for _, entry := range seqNode.Content {
		index, ok := yamlInt(entry, "Index")
		if !ok || index < 0 || index >= int64(t.data.SequenceCount()) {
			return &OutOfBoundsError{Context: "sequence index", Value: index, Limit: int64(t.data.SequenceCount())}
		}

		assertNode := yamlChild(entry, "Assertions")
		if assertNode == nil || assertNode.Kind != yaml.SequenceNode {
			return &ParseError{Path: "SegmentTrackTest.Sequences.Assertions", Message: "not a sequence"}
		}

		for _, an := range assertNode.Content {
			a, err := t.readAssertion(an, int(index))
			if err != nil {
				return err
			}
			assertions[index] = append(assertions[index], a)
		}
	}

	t.assertions = assertions
	t.cursorSequence = t.data.SequenceCount()
	t.cursorSegment = 0
	t.cursorPosition = 0
	t.assertionCursor = 0
	return nil
}

func (t *SegmentTrackTest) readAssertion(node *yaml.Node, sequenceIndex int) (*SegmentAssertion, error) {
	kindStr, _ := yamlString(node, "Type")
	kind, ok := AssertionKindFromString(kindStr)
	if !ok {
		return nil, &ParseError{Path: "SegmentTrackTest.Sequences.Assertions", Message: "unknown assertion type " + kindStr}
	}

	resultStr, _ := yamlString(node, "Result")
	result, ok := AssertionResultFromString(resultStr)
	if !ok {
		return nil, &ParseError{Path: "SegmentTrackTest.Sequences.Assertions", Message: "unknown assertion result " + resultStr}
	}

	position, ok := yamlInt(node, "Position")
	if !ok {
		return nil, &ParseError{Path: "SegmentTrackTest.Sequences.Assertions", Message: "missing Position"}
	}
	length, ok := yamlInt(node, "Length")
	if !ok {
		return nil, &ParseError{Path: "SegmentTrackTest.Sequences.Assertions", Message: "missing Length"}
	}

	a := &SegmentAssertion{
		position: VideoTime(position),
		length:   VideoTime(length),
		result:   result,
		kind:     kind,
	}
	a.info, _ = yamlString(node, "Info")
	if file, ok := yamlString(node, "File"); ok {
		line, _ := yamlInt(node, "FileLine")
		a.file = file
		a.line = int(line)
	}

	segPos, hasPos := yamlInt(node, "SegmentPosition")
	segLen, hasLen := yamlInt(node, "SegmentLength")
	if hasPos && hasLen {
		seq := t.data.SequenceAt(sequenceIndex)
		track := seq.Track(t.header).(*SegmentTrack)
		si := track.SegmentFromCoords(VideoTime(segPos), VideoTime(segLen))
		if si == track.TotalSegments() {
			return nil, &SegmentNotFoundError{Position: VideoTime(segPos), Length: VideoTime(segLen)}
		}
		a.segment = track.At(si)
	}
	return a, nil
}
