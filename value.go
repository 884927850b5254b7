package kdl

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ValueType is the closed set of KDL value kinds.
type ValueType int

const (
	TypeID ValueType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeString
	TypeNull
	TypeKeyword
	TypeInfinity
	TypeNaN
)

func (vt ValueType) String() string {
	switch vt {
	case TypeID:
		return "id"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeString:
		return "string"
	case TypeNull:
		return "null"
	case TypeKeyword:
		return "keyword"
	case TypeInfinity:
		return "infinity"
	case TypeNaN:
		return "nan"
	default:
		return "unknown"
	}
}

// IntegerFormat is the radix hint carried on integer Values; it does
// not affect numeric equality, only the lexeme an encoder reproduces.
type IntegerFormat int

const (
	FormatPlain IntegerFormat = iota
	FormatBin
	FormatOct
	FormatDec
	FormatHex
)

// Value is an atomic attribute payload: a number, string, boolean,
// null, or bare identifier, with zero or more annotations attached.
//
// Invariants: when Type is TypeInteger, Int is non-nil and
// Format is one of Bin/Oct/Dec/Hex. When Type is TypeFloat, Dec is
// non-nil. When Type is TypeNull, no payload field is set. Annotation
// strings are already escape-decoded.
type Value struct {
	Type        ValueType
	Format      IntegerFormat
	Int         *big.Int
	Dec         decimal.Decimal
	Bool        bool
	Str         string // string, id, keyword payload
	InfPositive bool   // meaningful only when Type == TypeInfinity
	Annotations []string
}

// Annotation returns the value's sole annotation, or "" if it has none.
// KDL v2 source only ever attaches at most one, but Annotations is
// modeled as a sequence.
func (v Value) Annotation() string {
	if len(v.Annotations) == 0 {
		return ""
	}
	return v.Annotations[0]
}

func (v Value) withAnnotation(ann string) Value {
	if ann == "" {
		return v
	}
	v.Annotations = append(append([]string(nil), v.Annotations...), ann)
	return v
}

func newStringValue(s string) Value {
	return Value{Type: TypeString, Str: s}
}

func newIDValue(s string) Value {
	return Value{Type: TypeID, Str: s}
}

func newIntValue(i *big.Int, format IntegerFormat) Value {
	return Value{Type: TypeInteger, Int: i, Format: format}
}

func newFloatValue(d decimal.Decimal) Value {
	return Value{Type: TypeFloat, Dec: d, Format: FormatPlain}
}

func newBoolValue(b bool) Value {
	return Value{Type: TypeBoolean, Bool: b}
}

func newNullValue() Value {
	return Value{Type: TypeNull}
}

func newKeywordValue(s string) Value {
	return Value{Type: TypeKeyword, Str: s}
}

func newInfinityValue(positive bool) Value {
	return Value{Type: TypeInfinity, InfPositive: positive}
}

func newNaNValue() Value {
	return Value{Type: TypeNaN}
}

// Equal reports whether two Values carry the same type and payload,
// ignoring annotations. Used by the selector's value matching;
// property-key deduplication compares stringKey instead.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeID, TypeString, TypeKeyword:
		return v.Str == o.Str
	case TypeInteger:
		if v.Int == nil || o.Int == nil {
			return v.Int == o.Int
		}
		return v.Int.Cmp(o.Int) == 0
	case TypeFloat:
		return v.Dec.Equal(o.Dec)
	case TypeBoolean:
		return v.Bool == o.Bool
	case TypeNull:
		return true
	case TypeInfinity:
		return v.InfPositive == o.InfPositive
	case TypeNaN:
		return true
	}
	return false
}

// stringKey returns the raw string payload used for property-key
// equality.
func (v Value) stringKey() string {
	return v.Str
}
