package kdl

import (
	"math/big"
	"testing"
)

func decodeOneTerm(t *testing.T, lex string) Value {
	t.Helper()
	toks, err := Tokenize([]byte(lex))
	if err != nil {
		t.Fatalf("tokenize(%q): %v", lex, err)
	}
	if len(toks) == 0 {
		t.Fatalf("tokenize(%q) produced no tokens", lex)
	}
	v, derr := decodeValue(&toks[0])
	if derr != nil {
		t.Fatalf("decodeValue(%q): %v", lex, derr)
	}
	return v
}

func TestDecodeKeywordLiterals(t *testing.T) {
	cases := []struct {
		lex      string
		wantType ValueType
	}{
		{"#true", TypeBoolean},
		{"#false", TypeBoolean},
		{"#null", TypeNull},
		{"#inf", TypeInfinity},
		{"#-inf", TypeInfinity},
		{"#nan", TypeNaN},
		{"#custom", TypeKeyword},
	}
	for _, c := range cases {
		v := decodeOneTerm(t, c.lex)
		if v.Type != c.wantType {
			t.Errorf("decode(%q).Type = %s, want %s", c.lex, v.Type, c.wantType)
		}
	}
}

func TestDecodeRadixIntegers(t *testing.T) {
	cases := []struct {
		lex    string
		want   int64
		format IntegerFormat
	}{
		{"0b1010", 10, FormatBin},
		{"0o17", 15, FormatOct},
		{"0x1F", 31, FormatHex},
		{"-0x1F", -31, FormatHex},
		{"0b1_0_1_0", 10, FormatBin},
	}
	for _, c := range cases {
		v := decodeOneTerm(t, c.lex)
		if v.Type != TypeInteger {
			t.Fatalf("decode(%q).Type = %s, want integer", c.lex, v.Type)
		}
		if v.Format != c.format {
			t.Errorf("decode(%q).Format = %v, want %v", c.lex, v.Format, c.format)
		}
		if v.Int.Cmp(big.NewInt(c.want)) != 0 {
			t.Errorf("decode(%q).Int = %s, want %d", c.lex, v.Int.String(), c.want)
		}
	}
}

func TestDecodePlainDecimalInteger(t *testing.T) {
	v := decodeOneTerm(t, "1_234_567")
	if v.Type != TypeInteger {
		t.Fatalf("got type %s, want integer", v.Type)
	}
	if v.Int.Cmp(big.NewInt(1234567)) != 0 {
		t.Errorf("got %s, want 1234567", v.Int.String())
	}
}

func TestDecodeFloat(t *testing.T) {
	v := decodeOneTerm(t, "1.5e10")
	if v.Type != TypeFloat {
		t.Fatalf("got type %s, want float", v.Type)
	}
	if !v.Dec.Equal(v.Dec) {
		t.Fatal("decimal should equal itself")
	}
}

func TestDecodeBareIdentifier(t *testing.T) {
	v := decodeOneTerm(t, "foo-bar")
	if v.Type != TypeID || v.Str != "foo-bar" {
		t.Errorf("got %+v, want id foo-bar", v)
	}
}

func TestDecodeRadixRejectsBadDigits(t *testing.T) {
	toks, err := Tokenize([]byte("0xZZ"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	_, derr := decodeValue(&toks[0])
	if derr == nil {
		t.Fatal("expected an error decoding 0xZZ")
	}
	if derr.Kind != KindInvalidHexIntegerFormat {
		t.Errorf("got kind %s, want %s", derr.Kind, KindInvalidHexIntegerFormat)
	}
}
