package kdl

// Attribute is a single node attribute: either a bare positional
// argument (Key absent, IsProperty false) or a key=value property.
type Attribute struct {
	IsProperty bool
	Key        Value // valid only when IsProperty
	Value      Value
}

// Node is a single document element: a name, its annotations, its
// ordered attributes, and its children (nil when the node had no
// brace block at all, as opposed to an empty one).
type Node struct {
	Name        string
	Annotations []string
	Attributes  []Attribute
	Children    []Node // nil: no {} block; non-nil-empty: "{}"
}

// HasChildren reports whether the node had a children block at all,
// distinguishing it from a node with an empty block.
func (n Node) HasChildren() bool {
	return n.Children != nil
}

// Annotation returns the node's sole annotation, or "" if none.
func (n Node) Annotation() string {
	if len(n.Annotations) == 0 {
		return ""
	}
	return n.Annotations[0]
}

// Arguments returns the node's positional (non-property) attribute
// values, in order.
func (n Node) Arguments() []Value {
	var out []Value
	for _, a := range n.Attributes {
		if !a.IsProperty {
			out = append(out, a.Value)
		}
	}
	return out
}

// Properties returns the node's key=value attributes as a map from key
// string to value, reflecting the parser's last-write-wins
// deduplication.
func (n Node) Properties() map[string]Value {
	out := map[string]Value{}
	for _, a := range n.Attributes {
		if a.IsProperty {
			out[a.Key.stringKey()] = a.Value
		}
	}
	return out
}

// Property looks up a single property by key.
func (n Node) Property(key string) (Value, bool) {
	for i := len(n.Attributes) - 1; i >= 0; i-- {
		a := n.Attributes[i]
		if a.IsProperty && a.Key.stringKey() == key {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Document is an ordered sequence of top-level nodes.
type Document []Node

// Walk calls fn for every node in the document and its descendants,
// depth-first, pre-order. fn returning false stops the descent into
// that node's children (but sibling traversal continues).
func (d Document) Walk(fn func(Node) bool) {
	walkNodes(d, fn)
}

func walkNodes(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		descend := fn(n)
		if descend && n.Children != nil {
			walkNodes(n.Children, fn)
		}
	}
}
