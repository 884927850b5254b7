package kdl

import (
	"fmt"
	"math/big"
	"strings"
)

// EncodeOptions configures Encode/EncodeStrict. IntegerFormat, when
// non-zero (i.e. not FormatPlain), overrides every value's own Format
// hint so the whole document is re-radixed uniformly.
type EncodeOptions struct {
	IntegerFormat IntegerFormat
}

// Encode renders a Document as canonical KDL v2 text.
func Encode(doc Document, opts EncodeOptions) ([]byte, error) {
	var b strings.Builder
	for _, n := range doc {
		if err := encodeNode(&b, n, 0, opts); err != nil {
			return nil, err
		}
	}
	if len(doc) == 0 {
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// EncodeStrict is Encode's panic-on-error counterpart; it shares
// EncodeOptions with Encode rather than dropping the parameter.
func EncodeStrict(doc Document, opts EncodeOptions) []byte {
	out, err := Encode(doc, opts)
	if err != nil {
		panic(err)
	}
	return out
}

func encodeNode(b *strings.Builder, n Node, depth int, opts EncodeOptions) error {
	indent := strings.Repeat("    ", depth)
	b.WriteString(indent)
	if ann := n.Annotation(); ann != "" {
		if err := writeAnnotation(b, ann); err != nil {
			return err
		}
	}
	writeIdentifierOrQuoted(b, n.Name)

	for _, attr := range n.Attributes {
		b.WriteByte(' ')
		if attr.IsProperty {
			writeIdentifierOrQuoted(b, attr.Key.Str)
			b.WriteByte('=')
			if err := writeValue(b, attr.Value, opts); err != nil {
				return err
			}
		} else {
			if err := writeValue(b, attr.Value, opts); err != nil {
				return err
			}
		}
	}

	if n.HasChildren() && len(n.Children) > 0 {
		b.WriteString(" {\n")
		for _, child := range n.Children {
			if err := encodeNode(b, child, depth+1, opts); err != nil {
				return err
			}
		}
		b.WriteString(indent)
		b.WriteString("}\n")
		return nil
	}
	b.WriteByte('\n')
	return nil
}

func writeAnnotation(b *strings.Builder, ann string) error {
	b.WriteByte('(')
	writeIdentifierOrQuoted(b, ann)
	b.WriteByte(')')
	return nil
}

func writeIdentifierOrQuoted(b *strings.Builder, s string) {
	if validIdentifier(s) {
		b.WriteString(s)
		return
	}
	b.WriteString(escapeDquote(s))
}

func writeValue(b *strings.Builder, v Value, opts EncodeOptions) error {
	if ann := v.Annotation(); ann != "" {
		if err := writeAnnotation(b, ann); err != nil {
			return err
		}
	}
	switch v.Type {
	case TypeNull:
		b.WriteString("#null")
	case TypeBoolean:
		if v.Bool {
			b.WriteString("#true")
		} else {
			b.WriteString("#false")
		}
	case TypeNaN:
		b.WriteString("#nan")
	case TypeInfinity:
		if v.InfPositive {
			b.WriteString("#inf")
		} else {
			b.WriteString("#-inf")
		}
	case TypeKeyword:
		if needQuote(v.Str) {
			return newErrorf(KindInvalidKeyword, TokenMeta{Line: 1, Column: 1}, "keyword %q would require quoting", v.Str)
		}
		b.WriteByte('#')
		b.WriteString(v.Str)
	case TypeString:
		b.WriteString(writeStringLiteral(v.Str))
	case TypeID:
		b.WriteString(v.Str)
	case TypeInteger:
		b.WriteString(formatInteger(v.Int, effectiveFormat(v.Format, opts.IntegerFormat)))
	case TypeFloat:
		b.WriteString(formatFloat(v.Dec))
	default:
		return newErrorf(KindInvalidKeyword, TokenMeta{Line: 1, Column: 1}, "unknown value type")
	}
	return nil
}

func writeStringLiteral(s string) string {
	if validIdentifier(s) {
		return s
	}
	return escapeDquote(s)
}

func effectiveFormat(valueFormat IntegerFormat, override IntegerFormat) IntegerFormat {
	if override != FormatPlain {
		return override
	}
	if valueFormat == FormatPlain {
		return FormatDec
	}
	return valueFormat
}

func formatInteger(n *big.Int, format IntegerFormat) string {
	if n == nil {
		n = big.NewInt(0)
	}
	neg := n.Sign() < 0
	abs := new(big.Int).Abs(n)
	sign := ""
	if neg {
		sign = "-"
	}
	switch format {
	case FormatBin:
		return sign + "0b" + abs.Text(2)
	case FormatOct:
		return sign + "0o" + abs.Text(8)
	case FormatHex:
		return sign + "0x" + abs.Text(16)
	default:
		return sign + abs.Text(10)
	}
}

// formatFloat renders a decimal.Decimal in uppercase scientific form
// when its magnitude needs an exponent, and in plain fixed form
// otherwise, so that a value like 1.5 round-trips as "1.5" rather than
// "1.5E0".
func formatFloat(d decimalLike) string {
	coeff := d.Coefficient()
	exp := d.Exponent()

	neg := coeff.Sign() < 0
	digits := new(big.Int).Abs(coeff).String()
	digits, exp = trimTrailingZeros(digits, exp)

	nDigits := len(digits)
	adjExp := int64(exp) + int64(nDigits-1)

	sign := ""
	if neg {
		sign = "-"
	}

	var mantissa string
	if nDigits == 1 {
		mantissa = digits
	} else {
		mantissa = digits[:1] + "." + digits[1:]
	}

	if adjExp == 0 {
		return sign + mantissa
	}
	expSign := ""
	if adjExp < 0 {
		expSign = "-"
	}
	return fmt.Sprintf("%s%sE%s%d", sign, mantissa, expSign, abs64(adjExp))
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func trimTrailingZeros(digits string, exp int32) (string, int32) {
	if digits == "0" {
		return digits, exp
	}
	i := len(digits)
	for i > 1 && digits[i-1] == '0' {
		i--
		exp++
	}
	return digits[:i], exp
}

// decimalLike is the slice of shopspring/decimal.Decimal's API this
// encoder needs, named separately so formatFloat's math reads
// independently of the concrete decimal type.
type decimalLike interface {
	Coefficient() *big.Int
	Exponent() int32
}

// dquoteEscapes is the literal single-character escape table.
var dquoteEscapes = map[rune]string{
	'\\': `\\`,
	'"':  `\"`,
	'\b': `\b`,
	'\f': `\f`,
	'\r': `\r`,
	'\n': `\n`,
	'\t': `\t`,
	'\v': `\v`,
}

func escapeDquote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if esc, ok := dquoteEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		if r < 0x20 || isNewlineLike(r) || isBOM(r) || isDisallowed(r) {
			fmt.Fprintf(&b, "\\u{%X}", r)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
