package kdl

// Version identifies the KDL grammar version this package implements.
const Version = "v2"

// DecodeOptions is an empty options struct. Decode and DecodeStrict do
// not take it as a parameter.
type DecodeOptions struct{}

// Decode tokenizes and parses a UTF-8 KDL v2 blob into a Document. It
// returns any input left unconsumed after the last top-level node,
// always empty for well-formed input since the tokenizer/parser pair
// consumes through end-of-input, but modeled as a return value rather
// than assumed.
func Decode(blob []byte) (Document, []byte, error) {
	tokens, err := Tokenize(blob)
	if err != nil {
		return nil, blob, err
	}
	doc, perr := Parse(tokens)
	if perr != nil {
		return nil, blob, perr
	}
	return doc, nil, nil
}

// DecodeStrict is Decode's panic-on-error counterpart.
func DecodeStrict(blob []byte) Document {
	doc, _, err := Decode(blob)
	if err != nil {
		panic(err)
	}
	return doc
}

// Must panics if err is non-nil, otherwise returns doc, for callers who
// prefer a single expression at init time.
func Must(doc Document, err error) Document {
	if err != nil {
		panic(err)
	}
	return doc
}
