package huffword

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/huffword/symtab"
)

// sliceTokenSource feeds a fixed token list, like a tokenizer would.
type sliceTokenSource struct {
	tokens []string
	at     int
}

func (s *sliceTokenSource) Next() (string, error) {
	if s.at >= len(s.tokens) {
		return "", io.EOF
	}
	token := s.tokens[s.at]
	s.at++
	return token, nil
}

func TestCountTokens(t *testing.T) {
	freq, sequence, err := CountTokens(NewTokenizer(strings.NewReader("aa bb aa")), 64)
	if err != nil {
		t.Fatalf("CountTokens failed: %v", err)
	}
	if !reflect.DeepEqual(sequence, []string{"aa", " ", "bb", " ", "aa"}) {
		t.Fatalf("sequence mismatch: %q", sequence)
	}
	want := map[string]int{"aa": 2, " ": 2, "bb": 1}
	if freq.Len() != len(want) {
		t.Fatalf("distinct count mismatch: got %d, want %d", freq.Len(), len(want))
	}
	for token, count := range want {
		got, ok := freq.Get(token)
		if !ok {
			t.Fatalf("token %q missing from census", token)
		}
		if got != count {
			t.Fatalf("count mismatch for %q: got %d, want %d", token, got, count)
		}
	}
}

func TestCountTokensEmpty(t *testing.T) {
	freq, sequence, err := CountTokens(&sliceTokenSource{}, 16)
	if err != nil {
		t.Fatalf("CountTokens failed: %v", err)
	}
	if freq.Len() != 0 || len(sequence) != 0 {
		t.Fatalf("empty source produced entries: %d tokens, %d distinct", len(sequence), freq.Len())
	}
}

func TestCountTokensCapacityExhausted(t *testing.T) {
	source := &sliceTokenSource{tokens: []string{"a", "b", "c", "d"}}
	_, _, err := CountTokens(source, 3)
	if !errors.Is(err, symtab.ErrTableFull) {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
}
