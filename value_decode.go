package kdl

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// decodeValue converts one value-bearing token into a typed Value.
// dquote_string/raw_string tokens always decode to TypeString; term
// tokens are classified as keyword, integer, float, or bare identifier.
func decodeValue(tok *Token) (Value, *Error) {
	switch tok.Typ {
	case TokenDquoteString, TokenRawString:
		return newStringValue(tok.Val), nil
	case TokenTerm:
		return decodeTerm(tok)
	default:
		return Value{}, newErrorf(KindNoTerm, tok.Meta, "expected a value-bearing token, got %s", tok.Typ).withToken(tok)
	}
}

func decodeTerm(tok *Token) (Value, *Error) {
	lex := tok.Val
	if strings.HasPrefix(lex, "#") {
		return decodeKeyword(tok)
	}
	if v, ok, err := decodeRadixInt(tok); ok || err != nil {
		return v, err
	}
	if v, ok, err := decodeDecimalOrFloat(tok); ok || err != nil {
		return v, err
	}
	if !validBareTermIdentifier(lex) {
		return Value{}, newErrorf(KindInvalidIdentifier, tok.Meta, "invalid bare identifier %q", lex).withToken(tok)
	}
	return newIDValue(lex), nil
}

// validBareTermIdentifier rejects the only bare term that reaches here
// with no content: an empty lexeme.
func validBareTermIdentifier(s string) bool {
	return s != ""
}

func decodeKeyword(tok *Token) (Value, *Error) {
	name := tok.Val[1:]
	switch name {
	case "true":
		return newBoolValue(true), nil
	case "false":
		return newBoolValue(false), nil
	case "null":
		return newNullValue(), nil
	case "inf":
		return newInfinityValue(true), nil
	case "-inf":
		return newInfinityValue(false), nil
	case "nan":
		return newNaNValue(), nil
	default:
		return newKeywordValue(name), nil
	}
}

// decodeRadixInt recognizes 0b/0o/0x prefixed integers. Returns
// ok=false (no error) when the lexeme doesn't start with a radix
// prefix at all, so the caller can fall through to decimal/float.
func decodeRadixInt(tok *Token) (Value, bool, *Error) {
	lex := tok.Val
	neg := false
	rest := lex
	if len(rest) > 0 && isSign(rune(rest[0])) {
		neg = rest[0] == '-'
		rest = rest[1:]
	}
	var format IntegerFormat
	var base int
	var kind Kind
	switch {
	case strings.HasPrefix(rest, "0b"):
		format, base, kind = FormatBin, 2, KindInvalidBinIntegerFormat
		rest = rest[2:]
	case strings.HasPrefix(rest, "0o"):
		format, base, kind = FormatOct, 8, KindInvalidOctIntegerFormat
		rest = rest[2:]
	case strings.HasPrefix(rest, "0x"):
		format, base, kind = FormatHex, 16, KindInvalidHexIntegerFormat
		rest = rest[2:]
	default:
		return Value{}, false, nil
	}
	if rest == "" {
		return Value{}, true, newErrorf(kind, tok.Meta, "empty digits after radix prefix in %q", lex).withToken(tok)
	}
	digits := stripUnderscores(rest)
	if digits == "" || !validRadixDigits(digits, base) {
		return Value{}, true, newErrorf(kind, tok.Meta, "invalid digits for radix prefix in %q", lex).withToken(tok)
	}
	n := new(big.Int)
	if _, ok := n.SetString(digits, base); !ok {
		return Value{}, true, newErrorf(kind, tok.Meta, "could not parse integer %q", lex).withToken(tok)
	}
	if neg {
		n.Neg(n)
	}
	return newIntValue(n, format), true, nil
}

func validRadixDigits(s string, base int) bool {
	for _, r := range s {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
		case r >= 'a' && r <= 'f':
			v = int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			v = int(r-'A') + 10
		default:
			return false
		}
		if v >= base {
			return false
		}
	}
	return true
}

func stripUnderscores(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r != '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// decodeDecimalOrFloat recognizes plain decimal integers and floats
// (optionally signed, with `.` and/or `e`/`E` exponent). ok=false (no
// error) means the lexeme doesn't start with a digit, optionally
// preceded by a sign.
func decodeDecimalOrFloat(tok *Token) (Value, bool, *Error) {
	lex := tok.Val
	i := 0
	if i < len(lex) && isSign(rune(lex[i])) {
		i++
	}
	if i >= len(lex) || !isDigit(rune(lex[i])) {
		return Value{}, false, nil
	}
	isFloat := strings.ContainsAny(lex, ".eE")
	cleaned := stripUnderscores(lex)
	if !isFloat {
		n := new(big.Int)
		if _, ok := n.SetString(cleaned, 10); !ok {
			return Value{}, true, newErrorf(KindInvalidDecIntegerFormat, tok.Meta, "invalid decimal integer %q", lex).withToken(tok)
		}
		return newIntValue(n, FormatDec), true, nil
	}
	normalized := normalizeFloatLexeme(cleaned)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Value{}, true, newErrorf(KindInvalidFloatFormat, tok.Meta, "invalid float %q: %v", lex, err).withToken(tok)
	}
	return newFloatValue(d), true, nil
}

// normalizeFloatLexeme upper-cases the exponent marker so encoded
// round-trips always reproduce the canonical 'E' form.
func normalizeFloatLexeme(s string) string {
	return strings.ReplaceAll(s, "e", "E")
}
