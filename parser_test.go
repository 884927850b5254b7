package kdl

import "testing"

func parseSource(t *testing.T, src string) Document {
	t.Helper()
	toks, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("tokenize(%q): %v", src, err)
	}
	doc, perr := Parse(toks)
	if perr != nil {
		t.Fatalf("parse(%q): %v", src, perr)
	}
	return doc
}

func TestParseBareNode(t *testing.T) {
	doc := parseSource(t, "node\n")
	if len(doc) != 1 || doc[0].Name != "node" {
		t.Fatalf("got %+v, want a single node named 'node'", doc)
	}
}

func TestParseNodeWithArgumentsAndProperties(t *testing.T) {
	doc := parseSource(t, `node 1 2 key="value"` + "\n")
	if len(doc) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc))
	}
	n := doc[0]
	args := n.Arguments()
	if len(args) != 2 {
		t.Fatalf("got %d arguments, want 2", len(args))
	}
	prop, ok := n.Property("key")
	if !ok || prop.Str != "value" {
		t.Errorf("got property %+v ok=%v, want 'value'", prop, ok)
	}
}

func TestParseNestedChildren(t *testing.T) {
	src := "parent {\n    child1\n    child2\n}\n"
	doc := parseSource(t, src)
	if len(doc) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc))
	}
	parent := doc[0]
	if !parent.HasChildren() || len(parent.Children) != 2 {
		t.Fatalf("got children %+v, want 2", parent.Children)
	}
	if parent.Children[0].Name != "child1" || parent.Children[1].Name != "child2" {
		t.Errorf("got %+v", parent.Children)
	}
}

func TestParseAnnotatedTypedProperty(t *testing.T) {
	src := `node value=(u8)42` + "\n"
	doc := parseSource(t, src)
	prop, ok := doc[0].Property("value")
	if !ok {
		t.Fatal("expected a 'value' property")
	}
	if prop.Annotation() != "u8" {
		t.Errorf("got annotation %q, want u8", prop.Annotation())
	}
	if prop.Type != TypeInteger {
		t.Errorf("got type %s, want integer", prop.Type)
	}
}

func TestParseSlashdashPrunesNode(t *testing.T) {
	doc := parseSource(t, "/-node1\nnode2\n")
	if len(doc) != 1 || doc[0].Name != "node2" {
		t.Fatalf("got %+v, want only node2", doc)
	}
}

func TestParseSlashdashPrunesAttribute(t *testing.T) {
	doc := parseSource(t, "node /-1 2\n")
	args := doc[0].Arguments()
	if len(args) != 1 {
		t.Fatalf("got %d arguments, want 1", len(args))
	}
	if args[0].Int == nil || args[0].Int.Int64() != 2 {
		t.Errorf("got %+v, want the literal 2", args[0])
	}
}

func TestParseSlashdashPrunesChildrenBlock(t *testing.T) {
	doc := parseSource(t, "node /-{\n    child\n}\n")
	if doc[0].HasChildren() {
		t.Errorf("got children %+v, want none (slashdashed away)", doc[0].Children)
	}
}

func TestParsePropertyLastWriteWins(t *testing.T) {
	doc := parseSource(t, `node a=1 a=2` + "\n")
	prop, ok := doc[0].Property("a")
	if !ok {
		t.Fatal("expected property 'a'")
	}
	if prop.Int == nil || prop.Int.Int64() != 2 {
		t.Errorf("got %+v, want 2 (last write wins)", prop)
	}
	if len(doc[0].Attributes) != 1 {
		t.Errorf("got %d attributes, want 1 after dedup", len(doc[0].Attributes))
	}
}

func TestParseRejectsCloseBlockAtTopLevel(t *testing.T) {
	toks, err := Tokenize([]byte("}\n"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	_, perr := Parse(toks)
	if perr == nil {
		t.Fatal("expected a parse error for a stray '}' at top level")
	}
}

func TestParseRejectsRawBlockWithoutNodeName(t *testing.T) {
	toks, err := Tokenize([]byte("{\n    child\n}\n"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	_, perr := Parse(toks)
	if perr == nil {
		t.Fatal("expected an error for a brace block with no preceding node name")
	}
	if perr.(*Error).Kind != KindRawBlockInDocument {
		t.Errorf("got kind %s, want %s", perr.(*Error).Kind, KindRawBlockInDocument)
	}
}

func TestParseEmptyChildrenBlockIsNotNil(t *testing.T) {
	doc := parseSource(t, "node {\n}\n")
	if !doc[0].HasChildren() {
		t.Fatal("expected HasChildren() true for an explicit empty block")
	}
	if len(doc[0].Children) != 0 {
		t.Errorf("got %d children, want 0", len(doc[0].Children))
	}
}
