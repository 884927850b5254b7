package kdl

// CharClass groups the Unicode code-point predicates the tokenizer,
// parser, and encoder all need to agree on. They are plain functions
// rather than a compiled table: the sets are small and the predicates
// read directly off the KDL v2 grammar.

// isScalar reports whether r is a Unicode scalar value: any code point
// except the surrogate range D800..DFFF.
func isScalar(r rune) bool {
	return (r >= 0x0000 && r <= 0xD7FF) || (r >= 0xE000 && r <= 0x10FFFF)
}

// isDirectionControl reports whether r is one of the bidirectional
// control characters KDL forbids in identifiers and raw scalars.
func isDirectionControl(r rune) bool {
	switch {
	case r == 0x200E || r == 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	}
	return false
}

// isDisallowed reports whether r may never appear literally in KDL
// source: non-scalar values and direction-control characters.
func isDisallowed(r rune) bool {
	return !isScalar(r) || isDirectionControl(r)
}

func isBOM(r rune) bool {
	return r == 0xFEFF
}

// isSpaceLike reports whether r is horizontal whitespace: tab,
// vertical tab, and the Unicode space separators.
func isSpaceLike(r rune) bool {
	switch r {
	case 0x09, 0x0B, 0x20, 0xA0, 0x1680, 0x202F, 0x205F, 0x3000:
		return true
	}
	if r >= 0x2000 && r <= 0x200A {
		return true
	}
	return false
}

// isNewlineLike reports whether r is (the first code point of) a line
// break. CR LF is handled as a two-code-point pair by the tokenizer;
// this predicate matches either half.
func isNewlineLike(r rune) bool {
	switch r {
	case 0x0A, 0x0C, 0x0D, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

func isEqualsLike(r rune) bool {
	switch r {
	case '=', 0xFE66, 0xFF1D, 0x1F7F0:
		return true
	}
	return false
}

func isSign(r rune) bool {
	return r == '+' || r == '-'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// identifierForbidden reports whether r may never appear inside a bare
// identifier or unquoted term.
func identifierForbidden(r rune) bool {
	if r < 0x20 {
		return true
	}
	if isDisallowed(r) || isSpaceLike(r) || isNewlineLike(r) || isEqualsLike(r) || isBOM(r) {
		return true
	}
	switch r {
	case '(', ')', '{', '}', '[', ']', '/', '\\', '"', '#', ';':
		return true
	}
	return false
}

// reservedIdentifiers are keyword spellings that are not valid bare
// identifiers: validIdentifier rejects them, so written without a
// leading '#' they are refused as a node name or a bare argument.
var reservedIdentifiers = map[string]struct{}{
	"true":  {},
	"false": {},
	"null":  {},
}

// validIdentifier reports whether s can be emitted as a bare node name,
// property key, or bare-identifier value without quoting: non-empty,
// not starting with a digit (optionally after a sign), free of
// identifier-forbidden runes, and not one of the reserved keyword
// spellings.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, reserved := reservedIdentifiers[s]; reserved {
		return false
	}
	runes := []rune(s)
	for _, r := range runes {
		if identifierForbidden(r) {
			return false
		}
	}
	// An identifier may not start like a number: a leading digit, or a
	// sign followed by a digit, is rejected whatever follows, even though
	// none of those runes are individually forbidden.
	if looksNumeric(runes) {
		return false
	}
	return true
}

func looksNumeric(runes []rune) bool {
	i := 0
	if i < len(runes) && isSign(runes[i]) {
		i++
	}
	if i >= len(runes) || !isDigit(runes[i]) {
		return false
	}
	return true
}

// needQuote reports whether a string value must be rendered as a
// dquote string instead of bare: anything that is not a valid
// identifier, per spec invariant "valid_identifier?(s) => !need_quote?(s)".
func needQuote(s string) bool {
	return !validIdentifier(s)
}
