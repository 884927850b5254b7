package kdl

// cursor is a simple forward-only index into a token slice with
// lookahead: Peek/Match/Consume-style helpers over KDL's token set.
type cursor struct {
	tokens []Token
	idx    int
}

func (c *cursor) at(offset int) *Token {
	i := c.idx + offset
	if i < 0 || i >= len(c.tokens) {
		return nil
	}
	return &c.tokens[i]
}

func (c *cursor) cur() *Token    { return c.at(0) }
func (c *cursor) advance()       { c.idx++ }
func (c *cursor) consumeN(n int) { c.idx += n }

func (c *cursor) lastMeta() TokenMeta {
	if len(c.tokens) == 0 {
		return TokenMeta{Line: 1, Column: 1}
	}
	return c.tokens[len(c.tokens)-1].Meta
}

// ---- accumulator item kinds, shared shape for document- and
// attribute-level slashdash resolution ----

type itemKind int

const (
	itemValue itemKind = iota
	itemSlashdash
	itemNode
	itemRawBlock
)

type docItem struct {
	kind itemKind
	node Node
}

type attrItem struct {
	kind     itemKind
	attr     Attribute
	hasChild bool // slashdash target was a child-block, not an attribute
}

// Parse runs the v2 parser over a token stream and produces a
// Document. It is a recursive-descent parser over the already-tokenized
// stream and returns the first error it meets.
func Parse(tokens []Token) (Document, error) {
	logf("parsing %d tokens", len(tokens))
	c := &cursor{tokens: tokens}
	items, err := parseItems(c, 0)
	if err != nil {
		return nil, err
	}
	nodes, rerr := resolveDocItems(items, c.lastMeta())
	if rerr != nil {
		return nil, rerr
	}
	if tok := c.cur(); tok != nil {
		return nil, newErrorf(KindUnresolvedExitState, tok.Meta, "parser left %d token(s) unconsumed at depth 0", len(tokens)-c.idx)
	}
	return Document(nodes), nil
}

// parseItems parses Default(depth): a run of nodes, slashdash markers,
// and (at depth>0) the terminating close_block. depth==0 means
// top-level; the caller is responsible for consuming close_block at
// depth>0 after this returns.
func parseItems(c *cursor, depth int) ([]docItem, *Error) {
	var items []docItem
	for {
		tok := c.cur()
		if tok == nil {
			if depth > 0 {
				return nil, newErrorf(KindUnexpectedEndOfDocument, c.lastMeta(), "unexpected end of document inside children block")
			}
			return items, nil
		}
		switch tok.Typ {
		case TokenSpace, TokenComment:
			c.advance()
			continue
		case TokenNewline, TokenSemicolon:
			c.advance()
			continue
		case TokenFold:
			if err := consumeFold(c); err != nil {
				return nil, err
			}
			continue
		case TokenCloseBlock:
			if depth == 0 {
				return nil, newErrorf(KindInvalidParseState, tok.Meta, "unexpected '}' at top level").withToken(tok)
			}
			return items, nil
		case TokenSlashdash:
			if len(items) > 0 && items[len(items)-1].kind == itemSlashdash {
				return nil, newErrorf(KindUnexpectedSlashdashOrigin, tok.Meta, "slashdash may not follow another unresolved slashdash").withToken(tok)
			}
			c.advance()
			skipSpacesCommentsFolds(c)
			items = append(items, docItem{kind: itemSlashdash})
			continue
		case TokenOpenAnnotation:
			c.advance()
			ann, err := parseAnnotationValue(c)
			if err != nil {
				return nil, err
			}
			skipSpacesComments(c)
			nameTok := c.cur()
			if nameTok == nil || !nameTok.isValueBearing() {
				return nil, newErrorf(KindUnresolvedAnnotation, c.lastMeta(), "annotation not followed by a node name")
			}
			node, err := parseNode(c, []string{ann})
			if err != nil {
				return nil, err
			}
			items = append(items, docItem{kind: itemNode, node: *node})
			continue
		case TokenOpenBlock:
			// A brace block with no preceding node name at document
			// level; recorded as a raw-block marker, an
			// error unless a preceding slashdash consumes it.
			c.advance()
			if _, err := parseItems(c, depth+1); err != nil {
				return nil, err
			}
			if err := expectCloseBlock(c); err != nil {
				return nil, err
			}
			items = append(items, docItem{kind: itemRawBlock})
			continue
		default:
			if !tok.isValueBearing() {
				return nil, newErrorf(KindInvalidParseState, tok.Meta, "unexpected token %s at document level", tok.Typ).withToken(tok)
			}
			node, err := parseNode(c, nil)
			if err != nil {
				return nil, err
			}
			items = append(items, docItem{kind: itemNode, node: *node})
			continue
		}
	}
}

func expectCloseBlock(c *cursor) *Error {
	tok := c.cur()
	if tok == nil || tok.Typ != TokenCloseBlock {
		return newErrorf(KindUnexpectedEndOfDocument, c.lastMeta(), "expected '}'")
	}
	c.advance()
	return nil
}

func skipSpacesComments(c *cursor) {
	for {
		tok := c.cur()
		if tok == nil {
			return
		}
		if tok.Typ == TokenSpace || tok.Typ == TokenComment {
			c.advance()
			continue
		}
		return
	}
}

func skipSpacesCommentsFolds(c *cursor) {
	for {
		tok := c.cur()
		if tok == nil {
			return
		}
		switch tok.Typ {
		case TokenSpace, TokenComment, TokenNewline:
			c.advance()
			continue
		case TokenFold:
			_ = consumeFold(c)
			continue
		}
		return
	}
}

// consumeFold consumes a fold token and exactly one following newline,
// reached across any intervening run of spaces/comments.
func consumeFold(c *cursor) *Error {
	c.advance() // the fold token itself
	for {
		tok := c.cur()
		if tok == nil {
			return newErrorf(KindIncompleteTokenize, c.lastMeta(), "fold at end of input with no following newline")
		}
		switch tok.Typ {
		case TokenSpace, TokenComment:
			c.advance()
			continue
		case TokenNewline:
			c.advance()
			return nil
		default:
			return newErrorf(KindInvalidParseState, tok.Meta, "fold must be followed by a newline").withToken(tok)
		}
	}
}

// parseAnnotationValue parses Annotation(depth): the single decoded
// term between an already-consumed open_annotation and its
// close_annotation.
func parseAnnotationValue(c *cursor) (string, *Error) {
	skipSpacesComments(c)
	tok := c.cur()
	if tok == nil || !tok.isValueBearing() {
		return "", newErrorf(KindInvalidAnnotation, c.lastMeta(), "expected a value inside annotation parentheses")
	}
	val, err := decodeValue(tok)
	if err != nil {
		return "", err
	}
	if val.Type != TypeID && val.Type != TypeString {
		return "", newErrorf(KindInvalidAnnotation, tok.Meta, "annotation must decode to an identifier or string, got %s", val.Type).withToken(tok)
	}
	c.advance()
	skipSpacesComments(c)
	closeTok := c.cur()
	if closeTok == nil || closeTok.Typ != TokenCloseAnnotation {
		return "", newErrorf(KindInvalidAnnotationParseState, c.lastMeta(), "expected ')' to close annotation")
	}
	c.advance()
	return val.Str, nil
}

// parseNode parses Node(depth): from the node-name token (already
// peeked, not yet consumed) through to the node's terminator, building
// its attribute accumulator and optionally recursing into a children
// block.
func parseNode(c *cursor, annotations []string) (*Node, *Error) {
	nameTok := c.cur()
	name, nameErr := nodeName(nameTok)
	if nameErr != nil {
		return nil, nameErr
	}
	c.advance()

	node := &Node{Name: name, Annotations: annotations}
	var attrs []attrItem
	spacesSinceName := 0
	var pendingAnnotation string

	for {
		tok := c.cur()
		if tok == nil {
			resolved, err := resolveAttrItems(attrs, node)
			if err != nil {
				return nil, err
			}
			node.Attributes = resolved
			return node, nil
		}
		switch tok.Typ {
		case TokenSpace:
			spacesSinceName++
			c.advance()
			continue
		case TokenComment:
			c.advance()
			continue
		case TokenFold:
			if err := consumeFold(c); err != nil {
				return nil, err
			}
			spacesSinceName++
			continue
		case TokenNewline, TokenSemicolon:
			c.advance()
			resolved, err := resolveAttrItems(attrs, node)
			if err != nil {
				return nil, err
			}
			node.Attributes = resolved
			return node, nil
		case TokenCloseBlock:
			resolved, err := resolveAttrItems(attrs, node)
			if err != nil {
				return nil, err
			}
			node.Attributes = resolved
			return node, nil
		case TokenSlashdash:
			if spacesSinceName == 0 {
				return nil, newErrorf(KindUnexpectedSlashdashStopToken, tok.Meta, "slashdash must be preceded by whitespace").withToken(tok)
			}
			c.advance()
			skipSpacesCommentsFolds(c)
			next := c.cur()
			if next != nil && next.Typ == TokenOpenBlock {
				child, err := parseChildrenBlock(c)
				if err != nil {
					return nil, err
				}
				attrs = append(attrs, attrItem{kind: itemSlashdash})
				attrs = append(attrs, attrItem{kind: itemValue, hasChild: true})
				node.Children = child
				spacesSinceName = 0
				continue
			}
			attrs = append(attrs, attrItem{kind: itemSlashdash})
			// The slashdash token itself is the required separator for
			// its target: no space is needed between "/-" and what it
			// prunes.
			spacesSinceName = 1
			continue
		case TokenOpenBlock:
			if spacesSinceName == 0 {
				return nil, newErrorf(KindInvalidNodeAttributes, tok.Meta, "children block must be preceded by whitespace").withToken(tok)
			}
			child, err := parseChildrenBlock(c)
			if err != nil {
				return nil, err
			}
			node.Children = child
			resolved, err2 := resolveAttrItems(attrs, node)
			if err2 != nil {
				return nil, err2
			}
			node.Attributes = resolved
			skipSpacesComments(c)
			if t := c.cur(); t != nil && (t.Typ == TokenNewline || t.Typ == TokenSemicolon) {
				c.advance()
			}
			return node, nil
		case TokenOpenAnnotation:
			if spacesSinceName == 0 {
				return nil, newErrorf(KindInvalidAttributeValueAnnot, tok.Meta, "annotation must be preceded by whitespace").withToken(tok)
			}
			c.advance()
			ann, err := parseAnnotationValue(c)
			if err != nil {
				return nil, err
			}
			pendingAnnotation = ann
			continue
		default:
			if !tok.isValueBearing() {
				return nil, newErrorf(KindUnexpectedTokenAfterNodeName, tok.Meta, "unexpected token %s after node name", tok.Typ).withToken(tok)
			}
			if spacesSinceName == 0 {
				return nil, newErrorf(KindInvalidAttributeToken, tok.Meta, "attribute must be preceded by whitespace").withToken(tok)
			}
			keyVal, err := decodeValue(tok)
			if err != nil {
				return nil, err
			}
			if pendingAnnotation != "" {
				keyVal = keyVal.withAnnotation(pendingAnnotation)
				pendingAnnotation = ""
			}
			c.advance()

			save := c.idx
			skipSpacesOnly(c)
			eqTok := c.cur()
			if eqTok != nil && eqTok.Typ == TokenEqual {
				if keyVal.Type != TypeID {
					return nil, newErrorf(KindInvalidAttributeToken, tok.Meta, "property key must be an identifier").withToken(tok)
				}
				if len(keyVal.Annotations) > 0 {
					return nil, newErrorf(KindKeyAnnotationsNotAllowed, tok.Meta, "property key may not carry an annotation").withToken(tok)
				}
				c.advance()
				skipSpacesOnly(c)
				var valAnnotation string
				if openTok := c.cur(); openTok != nil && openTok.Typ == TokenOpenAnnotation {
					c.advance()
					a, aerr := parseAnnotationValue(c)
					if aerr != nil {
						return nil, aerr
					}
					valAnnotation = a
					skipSpacesOnly(c)
				}
				valTok := c.cur()
				if valTok == nil || !valTok.isValueBearing() {
					return nil, newErrorf(KindInvalidAttributeValue, c.lastMeta(), "expected a value after '='")
				}
				val, verr := decodeValue(valTok)
				if verr != nil {
					return nil, verr
				}
				if valAnnotation != "" {
					val = val.withAnnotation(valAnnotation)
				}
				c.advance()
				attrs = append(attrs, attrItem{kind: itemValue, attr: Attribute{IsProperty: true, Key: keyVal, Value: val}})
				spacesSinceName = 0
				continue
			}
			// Not a property: restore and treat as a positional value.
			c.idx = save
			if keyVal.Type == TypeID {
				if !validIdentifier(keyVal.Str) {
					return nil, newErrorf(KindInvalidBareIdentifier, tok.Meta, "invalid bare identifier %q", keyVal.Str).withToken(tok)
				}
			}
			attrs = append(attrs, attrItem{kind: itemValue, attr: Attribute{Value: keyVal}})
			spacesSinceName = 0
			continue
		}
	}
}

func skipSpacesOnly(c *cursor) {
	for {
		tok := c.cur()
		if tok == nil || tok.Typ != TokenSpace {
			return
		}
		c.advance()
	}
}

func nodeName(tok *Token) (string, *Error) {
	if tok == nil {
		return "", newErrorf(KindUnexpectedEndOfDocument, TokenMeta{Line: 1, Column: 1}, "expected a node name")
	}
	switch tok.Typ {
	case TokenDquoteString, TokenRawString:
		return tok.Val, nil
	case TokenTerm:
		if len(tok.Val) > 0 && tok.Val[0] == '#' {
			return "", newErrorf(KindInvalidIdentifier, tok.Meta, "node name may not be a keyword").withToken(tok)
		}
		if !validIdentifier(tok.Val) {
			return "", newErrorf(KindInvalidIdentifier, tok.Meta, "invalid node name %q", tok.Val).withToken(tok)
		}
		return tok.Val, nil
	default:
		return "", newErrorf(KindInvalidParseState, tok.Meta, "expected a node name").withToken(tok)
	}
}

// parseChildrenBlock parses the children of an already-seen
// open_block, at depth+1, returning a (possibly empty) non-nil slice.
func parseChildrenBlock(c *cursor) ([]Node, *Error) {
	c.advance() // consume '{'
	items, err := parseItems(c, 1)
	if err != nil {
		return nil, err
	}
	if cerr := expectCloseBlock(c); cerr != nil {
		return nil, cerr
	}
	nodes, rerr := resolveDocItems(items, c.lastMeta())
	if rerr != nil {
		return nil, rerr
	}
	if nodes == nil {
		nodes = []Node{}
	}
	return nodes, nil
}

// resolveDocItems applies slashdash resolution to a
// top-level or children accumulator: each slashdash marker drops the
// item immediately following it.
func resolveDocItems(items []docItem, meta TokenMeta) ([]Node, *Error) {
	var out []Node
	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.kind == itemSlashdash {
			i++
			if i >= len(items) {
				return nil, newErrorf(KindSlashdashNothing, meta, "slashdash with no following item")
			}
			if items[i].kind == itemSlashdash {
				return nil, newErrorf(KindUnexpectedSlashdashTarget, meta, "slashdash target may not itself be a slashdash")
			}
			continue
		}
		if it.kind == itemRawBlock {
			return nil, newErrorf(KindRawBlockInDocument, meta, "unexpected '{' block with no node name")
		}
		out = append(out, it.node)
	}
	return out, nil
}

// resolveAttrItems applies slashdash resolution to a node's attribute
// accumulator, then de-duplicates properties by key, last write wins,
// preserving the relative order of surviving entries and interleaved
// positional arguments.
func resolveAttrItems(items []attrItem, node *Node) ([]Attribute, *Error) {
	var survivors []attrItem
	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.kind == itemSlashdash {
			i++
			if i >= len(items) {
				return nil, newErrorf(KindSlashdashNothing, TokenMeta{Line: 1, Column: 1}, "slashdash with no following attribute")
			}
			target := items[i]
			if target.kind == itemSlashdash {
				return nil, newErrorf(KindUnexpectedSlashdashTarget, TokenMeta{Line: 1, Column: 1}, "slashdash target may not itself be a slashdash")
			}
			if target.hasChild {
				node.Children = nil
			}
			continue
		}
		if it.hasChild {
			continue
		}
		survivors = append(survivors, it)
	}

	lastIndexForKey := map[string]int{}
	for i, it := range survivors {
		if it.attr.IsProperty {
			lastIndexForKey[it.attr.Key.stringKey()] = i
		}
	}
	var out []Attribute
	for i, it := range survivors {
		if it.attr.IsProperty {
			if lastIndexForKey[it.attr.Key.stringKey()] != i {
				continue
			}
		}
		out = append(out, it.attr)
	}
	return out, nil
}
