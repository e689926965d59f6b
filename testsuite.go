package teground

import (
	"gopkg.in/yaml.v3"
)

// TestSuite aggregates the evaluators over one data file. The data file
// is borrowed and must outlive the suite; it must not be mutated while
// evaluators exist over it.
//
// The evaluator-subtype registry is scoped to the suite, mirroring the
// data file's track registry.
type TestSuite struct {
	data     *DataFile
	name     string
	tests    []TrackTest
	registry *TrackTestRegistry
}

// NewTestSuite creates a suite over data with the "SegmentTrackTest"
// evaluator subtype registered.
func NewTestSuite(data *DataFile, name string) *TestSuite {
	r := NewTrackTestRegistry()
	r.Register(SegmentTrackTestType, newSegmentTrackTestFor)
	return &TestSuite{data: data, name: name, registry: r}
}

// DataFile returns the borrowed data file.
func (s *TestSuite) DataFile() *DataFile { return s.data }

// Name returns the suite name.
func (s *TestSuite) Name() string { return s.name }

// Registry returns the suite's evaluator-subtype registry.
func (s *TestSuite) Registry() *TrackTestRegistry { return s.registry }

// AddTest appends an evaluator.
func (s *TestSuite) AddTest(t TrackTest) {
	s.tests = append(s.tests, t)
}

// Tests returns the evaluators in order. The slice must not be mutated by
// the caller.
func (s *TestSuite) Tests() []TrackTest { return s.tests }

// ClearTests drops every evaluator.
func (s *TestSuite) ClearTests() {
	s.tests = nil
}

// ReadFrom loads suite results from a YAML document rooted at
// "TeGroundTestSuite".
func (s *TestSuite) ReadFrom(path string) error {
	root, err := loadDocument(path, "TeGroundTestSuite")
	if err != nil {
		return err
	}
	return s.Read(root)
}

// WriteTo persists the suite results as a YAML document rooted at
// "TeGroundTestSuite".
func (s *TestSuite) WriteTo(path string) error {
	doc, err := s.Write()
	if err != nil {
		return err
	}
	return saveDocument(path, doc)
}

// Read replaces the suite's evaluators from the "TeGroundTestSuite" node:
// one evaluator per TrackTests entry, constructed through the registry by
// its Type tag and handed its own node. On error the receiver is left
// unchanged.
func (s *TestSuite) Read(node *yaml.Node) error {
	name, _ := yamlString(node, "Name")

	nodeTests := yamlChild(node, "TrackTests")
	if nodeTests == nil || nodeTests.Kind != yaml.SequenceNode {
		return &ParseError{Path: "TeGroundTestSuite.TrackTests", Message: "not a sequence"}
	}

	tests := make([]TrackTest, 0, len(nodeTests.Content))
	for _, testNode := range nodeTests.Content {
		subtype, _ := yamlString(testNode, "Type")
		fn := s.registry.makeFunc(subtype)
		if fn == nil {
			return &ParseError{Path: "TeGroundTestSuite.TrackTests", Message: "unknown test subtype " + subtype}
		}

		headerIndex, ok := yamlInt(testNode, "Header")
		if !ok || headerIndex < 0 || headerIndex >= int64(s.data.TrackCount()) {
			return &OutOfBoundsError{Context: "header index", Value: headerIndex, Limit: int64(s.data.TrackCount())}
		}

		test, err := fn(s.data, s.data.TrackAt(int(headerIndex)))
		if err != nil {
			return err
		}
		if err := test.Read(testNode); err != nil {
			return err
		}
		tests = append(tests, test)
	}

	s.name = name
	s.tests = tests
	return nil
}

// Write serializes the suite to a document node holding the
// "TeGroundTestSuite" key.
func (s *TestSuite) Write() (*yaml.Node, error) {
	trackTests := seqYamlNode()
	for _, t := range s.tests {
		n, err := t.Write()
		if err != nil {
			return nil, err
		}
		trackTests.Content = append(trackTests.Content, n)
	}

	body := mapNode()
	mapAppend(body, "Name", strNode(s.name))
	mapAppend(body, "TrackTests", trackTests)

	doc := mapNode()
	mapAppend(doc, "TeGroundTestSuite", body)
	return doc, nil
}
