package huffword

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/derekparker/trie"
	"github.com/icza/bitio"
	"github.com/npillmayer/huffword/symtab"
)

// ErrNotPrefixFree flags a code table in which one code is a prefix of
// another. Tables derived from a Huffman tree are always prefix-free,
// but tables read back from a listing or an archive may not be.
var ErrNotPrefixFree = errors.New("code table is not prefix-free")

// ErrCorruptStream flags a packed payload that cannot be resolved
// against the decoder's code table.
var ErrCorruptStream = errors.New("corrupt bit stream")

// A Decoder resolves packed payload bits back into the token sequence
// they were encoded from. It walks a trie keyed by the rendered code
// strings: every time the bits read so far spell a key, the token at
// that key is emitted and the walk restarts at the root.
type Decoder struct {
	codes  *trie.Trie
	maxLen uint8
}

// NewDecoder prepares a decoder for a code table, verifying that the
// table is prefix-free.
func NewDecoder(codes *symtab.Table[Code]) (*Decoder, error) {
	tr := trie.New()
	var maxLen uint8
	keys := codes.Keys()
	values := codes.Values()
	for i, token := range keys {
		code := values[i]
		if code.Len == 0 {
			return nil, fmt.Errorf("token %q carries an empty code", token)
		}
		rendered := code.String()
		if tr.HasKeysWithPrefix(rendered) {
			return nil, fmt.Errorf("code %s of token %q: %w", rendered, token, ErrNotPrefixFree)
		}
		for j := 1; j < len(rendered); j++ {
			if _, ok := tr.Find(rendered[:j]); ok {
				return nil, fmt.Errorf("code %s of token %q: %w", rendered, token, ErrNotPrefixFree)
			}
		}
		tr.Add(rendered, token)
		if code.Len > maxLen {
			maxLen = code.Len
		}
	}
	tracer().Debugf("decoder ready, %d codes, longest spans %d bits", codes.Len(), maxLen)
	return &Decoder{codes: tr, maxLen: maxLen}, nil
}

// Decode unpacks bitLen payload bits from packed and returns the token
// sequence. Padding bits beyond bitLen are ignored. The payload must be
// exactly the bytes the bit count calls for, and every payload bit must
// belong to a complete code.
func (d *Decoder) Decode(packed []byte, bitLen int64) ([]string, error) {
	if bitLen < 0 {
		return nil, fmt.Errorf("negative payload bit count %d", bitLen)
	}
	if want := (bitLen + 7) / 8; int64(len(packed)) != want {
		return nil, fmt.Errorf("payload of %d bytes cannot hold %d bits: %w",
			len(packed), bitLen, ErrCorruptStream)
	}
	br := bitio.NewReader(bytes.NewReader(packed))
	sequence := []string{}
	run := make([]byte, 0, d.maxLen)
	for i := int64(0); i < bitLen; i++ {
		bit, err := br.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("reading payload bit %d: %w", i, err)
		}
		if bit {
			run = append(run, '1')
		} else {
			run = append(run, '0')
		}
		if len(run) > int(d.maxLen) {
			return nil, fmt.Errorf("bit run %s matches no code: %w", run, ErrCorruptStream)
		}
		node, ok := d.codes.Find(string(run))
		if !ok {
			continue
		}
		sequence = append(sequence, node.Meta().(string))
		run = run[:0]
	}
	if len(run) > 0 {
		return nil, fmt.Errorf("%d dangling payload bits %s: %w", len(run), run, ErrCorruptStream)
	}
	return sequence, nil
}
