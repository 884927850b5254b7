package kdl

// SelectorKind classifies one step of a selector path.
type SelectorKind int

const (
	SelName SelectorKind = iota
	SelNode
	SelAttr
	SelValue
)

// Selector is one step of a path passed to Select. Name/NodeName match
// a node by its Name; Attrs (used with Node) are additionally matched
// against the node's attributes; Key/Value (used with Attr) match a
// property; Value alone (used with Value) matches a positional
// argument.
type Selector struct {
	Kind     SelectorKind
	NodeName string
	Attrs    []Selector // only meaningful when Kind == SelNode

	Key      string // SelAttr
	Value    Value  // SelAttr (optional, zero Value means "key only"), SelValue
	HasValue bool   // SelAttr: whether Value should be matched too
}

// NameSelector builds the `name: string` shorthand.
func NameSelector(name string) Selector {
	return Selector{Kind: SelName, NodeName: name}
}

// NodeSelector builds `(node, name, attr-selectors...)`.
func NodeSelector(name string, attrs ...Selector) Selector {
	return Selector{Kind: SelNode, NodeName: name, Attrs: attrs}
}

// AttrKeySelector builds `(attr, key)`.
func AttrKeySelector(key string) Selector {
	return Selector{Kind: SelAttr, Key: key}
}

// AttrKeyValueSelector builds `(attr, key, value)`.
func AttrKeyValueSelector(key string, value Value) Selector {
	return Selector{Kind: SelAttr, Key: key, Value: value, HasValue: true}
}

// ValueSelector builds `(value, v)`.
func ValueSelector(v Value) Selector {
	return Selector{Kind: SelValue, Value: v, HasValue: true}
}

// Select returns every node matching path, searching recursively: the
// path is tried against each node, matches are collected, and the same
// path also recurses into every node's children regardless of whether
// the node itself matched.
func Select(doc Document, path []Selector) []Node {
	var out []Node
	selectIn(doc, path, &out)
	return out
}

// selectIn implements recursive matching: path[0] is tried
// against every node at this level. A match with path fully consumed
// (len(path) == 1) is collected; a match with more path remaining
// descends into that node's own children with the shortened path. The
// full, unshortened path is also always retried against every node's
// children, so a selector matches at any depth, not just along a
// single matched spine.
func selectIn(nodes []Node, path []Selector, out *[]Node) {
	if len(path) == 0 {
		return
	}
	for _, n := range nodes {
		if matchesSelector(n, path[0]) {
			if len(path) == 1 {
				*out = append(*out, n)
			} else if n.Children != nil {
				selectIn(n.Children, path[1:], out)
			}
		}
		if n.Children != nil {
			selectIn(n.Children, path, out)
		}
	}
}

func matchesSelector(n Node, s Selector) bool {
	switch s.Kind {
	case SelName, SelNode:
		if n.Name != s.NodeName {
			return false
		}
		for _, attrSel := range s.Attrs {
			if !matchesAnyAttribute(n, attrSel) {
				return false
			}
		}
		return true
	case SelAttr, SelValue:
		return matchesAnyAttribute(n, s)
	default:
		return false
	}
}

func matchesAnyAttribute(n Node, s Selector) bool {
	switch s.Kind {
	case SelAttr:
		for _, a := range n.Attributes {
			if !a.IsProperty || a.Key.stringKey() != s.Key {
				continue
			}
			if !s.HasValue {
				return true
			}
			if a.Value.Equal(s.Value) {
				return true
			}
		}
		return false
	case SelValue:
		for _, a := range n.Attributes {
			if a.IsProperty {
				continue
			}
			if a.Value.Equal(s.Value) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
