/*
Package huffword implements word-level Huffman coding for text.

Text is split into tokens: maximal runs of word characters (letters,
digits, dash, apostrophe) or single non-word characters. A counting pass
tallies token frequencies, a Huffman tree built from the census assigns every
token a prefix-free bit code, and the token sequence is packed into a
bit stream. Frequencies and codes live in fixed-capacity open-addressing
tables (package symtab) whose probe statistics are part of the
diagnostic output.

The classic two-file output (a human-readable code listing plus raw
packed bytes) is handled by package codesfile and cmd/huffword. Because
the raw byte output records neither bit length nor code table, the
package also provides a self-contained Archive format and a Decoder for
exact round-trips.

Further Reading

	https://en.wikipedia.org/wiki/Huffman_coding
	D.A. Huffman: A Method for the Construction of Minimum-Redundancy Codes (1952)

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package huffword

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'huffword'
func tracer() tracing.Trace {
	return tracing.Select("huffword")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
