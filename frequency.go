package huffword

import (
	"fmt"
	"io"

	"github.com/npillmayer/huffword/symtab"
)

// DefaultTableCap is the symbol table capacity used by the convenience entry
// points. It leaves a census of tens of thousands of distinct tokens well
// below half fill.
const DefaultTableCap = 32768

// TokenSource yields tokens one-by-one.
// It should return io.EOF when the stream is exhausted.
type TokenSource interface {
	Next() (token string, err error)
}

// CountTokens drains source and tallies token frequencies.
//
// It returns the frequency table and the complete token sequence in input
// order; the encoder walks the sequence a second time. A census with more
// distinct tokens than capacity fails with ErrTableFull.
func CountTokens(source TokenSource, capacity int) (*symtab.Table[int], []string, error) {
	freq, err := symtab.New[int](capacity)
	if err != nil {
		return nil, nil, err
	}
	sequence := make([]string, 0, 1024)
	for {
		token, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		count, _ := freq.Get(token)
		if err := freq.Put(token, count+1); err != nil {
			return nil, nil, fmt.Errorf("counting token %q: %w", token, err)
		}
		sequence = append(sequence, token)
	}
	tracer().Debugf("counted %d tokens, %d distinct", len(sequence), freq.Len())
	return freq, sequence, nil
}
