package kdl

import (
	"testing"

	. "gopkg.in/check.v1"
)

// Hook go-check into `go test`: one suite collecting issue-shaped
// regressions that don't fit neatly into a single table-driven test.
func TestIssues(t *testing.T) { TestingT(t) }

type IssuesSuite struct{}

var _ = Suite(&IssuesSuite{})

// A node with no attributes and no children block still round-trips
// through decode/encode without gaining a spurious empty block.
func (s *IssuesSuite) TestBareNodeRoundTrip(c *C) {
	doc, _, err := Decode([]byte("lone\n"))
	c.Assert(err, IsNil)
	c.Assert(doc, HasLen, 1)
	c.Assert(doc[0].HasChildren(), Equals, false)

	out, eerr := Encode(doc, EncodeOptions{})
	c.Assert(eerr, IsNil)
	c.Assert(string(out), Equals, "lone\n")
}

// Properties interleaved with positional arguments keep their relative
// order among survivors after slashdash/dedup resolution.
func (s *IssuesSuite) TestAttributeOrderingPreserved(c *C) {
	doc, _, err := Decode([]byte(`node 1 a=1 2 a=2 3` + "\n"))
	c.Assert(err, IsNil)
	attrs := doc[0].Attributes
	c.Assert(attrs, HasLen, 4)
	c.Assert(attrs[0].Value.Int.Int64(), Equals, int64(1))
	c.Assert(attrs[1].Value.Int.Int64(), Equals, int64(2))
	c.Assert(attrs[2].IsProperty, Equals, true)
	c.Assert(attrs[2].Value.Int.Int64(), Equals, int64(2))
	c.Assert(attrs[3].Value.Int.Int64(), Equals, int64(3))
}

// A multi-line string whose body is exactly one line (plus the
// mandatory blank closing line) dedents to that single line with no
// leftover newline.
func (s *IssuesSuite) TestMultilineStringSingleContentLine(c *C) {
	toks, err := Tokenize([]byte("\"\"\"\n  only line\n  \"\"\"\n"))
	c.Assert(err, IsNil)
	c.Assert(toks[0].Val, Equals, "only line")
}

// An annotation on a node name is distinct from an annotation on one of
// its values: only the node's own Annotation() reflects the former.
func (s *IssuesSuite) TestNodeAnnotationDoesNotLeakToValues(c *C) {
	doc, _, err := Decode([]byte("(type)node 1\n"))
	c.Assert(err, IsNil)
	c.Assert(doc[0].Annotation(), Equals, "type")
	c.Assert(doc[0].Arguments()[0].Annotation(), Equals, "")
}

// An annotation whose inner term decodes to something other than an
// identifier or string (a number, a keyword) is rejected rather than
// silently collapsing to an empty annotation string.
func (s *IssuesSuite) TestAnnotationRejectsNonIdentifierValue(c *C) {
	_, _, err := Decode([]byte("(42)node\n"))
	c.Assert(err, NotNil)
	kerr, ok := err.(*Error)
	c.Assert(ok, Equals, true)
	c.Assert(kerr.Kind, Equals, KindInvalidAnnotation)
}

// Decoding invalid input surfaces a *kdl.Error with a populated Kind,
// not a bare error string, so callers can branch on failure category.
func (s *IssuesSuite) TestDecodeErrorCarriesKind(c *C) {
	_, _, err := Decode([]byte("node \x01\n"))
	c.Assert(err, NotNil)
	kerr, ok := err.(*Error)
	c.Assert(ok, Equals, true)
	c.Assert(kerr.Kind, Equals, KindBadTokenize)
}
