// Package kdl implements the KDL v2 document language: a tokenizer,
// parser, value decoder, encoder, and path-based selector over a shared
// node/document model.
//
// A tiny example:
//
//	doc, rest, err := kdl.Decode([]byte(`node1 "arg" key=42 {
//	    node2
//	}`))
//	if err != nil {
//	    panic(err)
//	}
//	out, err := kdl.Encode(doc, kdl.EncodeOptions{})
//	fmt.Println(string(out))
//
// The v1 pipeline, the version-picking façade, and caller-facing
// exception wrappers live outside this package; it implements only the
// v2 grammar.
package kdl
