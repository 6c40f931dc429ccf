package huffword

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// IsWordRune reports whether r belongs inside a word token. Words are
// maximal runs of letters, digits, dashes and apostrophes; every other rune
// becomes a token of its own.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\''
}

// Tokenizer splits text from a reader into tokens, one Next call at a time.
//
// Invalid UTF-8 bytes decode to the replacement character, which is a
// non-word rune, so any byte input yields a deterministic token sequence.
type Tokenizer struct {
	reader  *bufio.Reader
	word    strings.Builder
	pending string // separator held back while a finished word is returned
	err     error
}

// NewTokenizer returns a tokenizer reading runes from reader.
func NewTokenizer(reader io.Reader) *Tokenizer {
	return &Tokenizer{reader: bufio.NewReader(reader)}
}

// Next returns the next token. It returns io.EOF when the input is
// exhausted. No token is ever the empty string.
func (t *Tokenizer) Next() (string, error) {
	if t.pending != "" {
		token := t.pending
		t.pending = ""
		return token, nil
	}
	if t.err != nil {
		return "", t.err
	}
	for {
		r, _, err := t.reader.ReadRune()
		if err != nil {
			t.err = err
			if err == io.EOF && t.word.Len() > 0 {
				token := t.word.String()
				t.word.Reset()
				return token, nil
			}
			return "", err
		}
		if IsWordRune(r) {
			t.word.WriteRune(r)
			continue
		}
		if t.word.Len() > 0 {
			token := t.word.String()
			t.word.Reset()
			t.pending = string(r)
			return token, nil
		}
		return string(r), nil
	}
}

// Tokenize splits s into its complete token sequence.
func Tokenize(s string) []string {
	t := NewTokenizer(strings.NewReader(s))
	tokens := make([]string, 0, len(s)/4+1)
	for {
		token, err := t.Next()
		if err == io.EOF {
			return tokens
		}
		if err != nil {
			panic(err) // a strings.Reader only ever fails with io.EOF
		}
		tokens = append(tokens, token)
	}
}
