package huffword

import (
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/npillmayer/huffword/symtab"
)

// ErrNoCode flags a token that reached the encoder without a code. Every
// token seen by the encoder was counted into the census the codes were
// derived from, so this means the code table and the token sequence belong
// to different texts.
var ErrNoCode = errors.New("token has no code")

// EncodeTokens packs the code of every token in sequence into w, in
// sequence order.
//
// Bits are written most significant first and the final byte is padded with
// zero bits. The returned count is the number of payload bits, excluding
// padding; decoding needs it to tell payload from padding.
func EncodeTokens(sequence []string, codes *symtab.Table[Code], w io.Writer) (int64, error) {
	bw := bitio.NewWriter(w)
	var bits int64
	for _, token := range sequence {
		code, ok := codes.Get(token)
		if !ok {
			return bits, fmt.Errorf("token %q: %w", token, ErrNoCode)
		}
		if err := bw.WriteBits(code.Bits, code.Len); err != nil {
			return bits, err
		}
		bits += int64(code.Len)
	}
	if err := bw.Close(); err != nil {
		return bits, err
	}
	return bits, nil
}
