package kdl

import (
	"fmt"

	"github.com/juju/errors"
)

// Kind classifies a decode/encode failure per the tokenize, parse,
// value-decode, and encode taxonomies.
type Kind string

const (
	// Tokenize errors.
	KindIncompleteTokenize              Kind = "incomplete_tokenize"
	KindBadTokenize                     Kind = "bad_tokenize"
	KindUnterminatedDquoteString        Kind = "unterminated_dquote_string"
	KindUnterminatedRawString           Kind = "unterminated_raw_string"
	KindInvalidDquoteStringEscape       Kind = "invalid_dquote_string_escape"
	KindInvalidRawStringBody            Kind = "invalid_raw_string_body"
	KindInvalidMultilineString          Kind = "invalid_multiline_string"
	KindInvalidMultilineRawString       Kind = "invalid_multiline_raw_string"
	KindIncompleteDedentation           Kind = "incomplete_dedentation"
	KindInvalidEndLine                  Kind = "invalid_end_line"
	KindInvalidIdentifier               Kind = "invalid_identifier"
	KindInvalidUnicodeScalar            Kind = "invalid_unicode_scalar"
	KindPrematureTermination            Kind = "premature_termination"
	KindUnexpectedNewlineInSingleLine   Kind = "unexpected_newline_in_single_line_string"
	KindUnexpectedCharacter             Kind = "unexpected_character"
	KindDisallowedChar                  Kind = "disallowed_char"

	// Parse errors.
	KindInvalidParseState             Kind = "invalid_parse_state"
	KindInvalidAnnotation             Kind = "invalid_annotation"
	KindInvalidAnnotationParseState   Kind = "invalid_annotation_parse_state"
	KindInvalidAttributeToken         Kind = "invalid_attribute_token"
	KindInvalidAttributeValue         Kind = "invalid_attribute_value"
	KindInvalidAttributeValueAnnot    Kind = "invalid_attribute_value_annotation"
	KindInvalidBareIdentifier         Kind = "invalid_bare_identifier"
	KindInvalidNodeAttributes         Kind = "invalid_node_attributes"
	KindKeyAnnotationsNotAllowed      Kind = "key_annotations_not_allowed"
	KindUnexpectedTokenAfterNodeName  Kind = "unexpected_token_after_node_name"
	KindUnexpectedSlashdashOrigin     Kind = "unexpected_slashdash_origin"
	KindUnexpectedSlashdashStopToken  Kind = "unexpected_slashdash_stop_token"
	KindUnexpectedSlashdashTarget     Kind = "unexpected_slashdash_target"
	KindUnexpectedEndOfDocument       Kind = "unexpected_end_of_document"
	KindSlashdashNothing              Kind = "slashdash_nothing"
	KindRawBlockInDocument            Kind = "raw_block_in_document"
	KindUnresolvedAnnotation          Kind = "unresolved_annotation"
	KindUnresolvedExitState           Kind = "unresolved_exit_state"

	// Value decode errors.
	KindInvalidBinIntegerFormat Kind = "invalid_bin_integer_format"
	KindInvalidOctIntegerFormat Kind = "invalid_oct_integer_format"
	KindInvalidDecIntegerFormat Kind = "invalid_dec_integer_format"
	KindInvalidHexIntegerFormat Kind = "invalid_hex_integer_format"
	KindInvalidFloatFormat      Kind = "invalid_float_format"
	KindNoTerm                  Kind = "no_term"

	// Encode errors.
	KindInvalidKeyword Kind = "invalid_keyword"
)

// Error is the tagged value returned by every fallible operation in this
// package: a Kind plus enough context (offending token, parser state,
// source position) to debug the failure. Context is free-form and
// exists for diagnostics only; callers should branch on Kind.
type Error struct {
	Kind     Kind
	Filename string
	Line     int
	Column   int
	Token    *Token
	State    string
	Context  map[string]any
	cause    error
}

// Error formats a human-readable description of the failure.
func (e *Error) Error() string {
	s := fmt.Sprintf("[%s", e.Kind)
	if e.State != "" {
		s += " (state: " + e.State + ")"
	}
	if e.Filename != "" {
		s += " in " + e.Filename
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" | Line %d Col %d", e.Line, e.Column)
		if e.Token != nil {
			s += fmt.Sprintf(" near %s", e.Token.String())
		}
	}
	s += "]"
	if e.cause != nil {
		s += " " + e.cause.Error()
	}
	return s
}

// Cause returns the underlying error this Error was traced from, if
// any, so callers can unwrap with errors.Cause.
func (e *Error) Cause() error {
	return e.cause
}

func newError(kind Kind, meta TokenMeta, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Trace(cause)
	}
	return &Error{
		Kind:    kind,
		Line:    meta.Line,
		Column:  meta.Column,
		cause:   wrapped,
		Context: map[string]any{},
	}
}

func newErrorf(kind Kind, meta TokenMeta, format string, args ...any) *Error {
	return newError(kind, meta, errors.New(fmt.Sprintf(format, args...)))
}

func (e *Error) withToken(t *Token) *Error {
	e.Token = t
	return e
}

func (e *Error) withState(state string) *Error {
	e.State = state
	return e
}
