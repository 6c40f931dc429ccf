package huffword

import (
	"fmt"
	"strings"
)

// maxCodeLen bounds code length to what fits the uint64 path accumulator.
// A census would need token counts beyond 2^60 to grow a deeper tree.
const maxCodeLen = 64

// Code is the Huffman code of a single token: a path of Len branch choices
// from the tree root, stored right-aligned in Bits. The most significant of
// the Len bits is the first branch taken.
type Code struct {
	Bits uint64
	Len  uint8
}

// push returns c extended by one trailing branch bit.
func (c Code) push(bit uint64) Code {
	return Code{Bits: c.Bits<<1 | bit, Len: c.Len + 1}
}

// String renders the code as a string of '0' and '1' digits, first branch
// first.
func (c Code) String() string {
	if c.Len == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(c.Len))
	for i := int(c.Len) - 1; i >= 0; i-- {
		if c.Bits>>uint(i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseCode converts a string of '0' and '1' digits into a Code.
func ParseCode(s string) (Code, error) {
	if len(s) == 0 {
		return Code{}, fmt.Errorf("empty code")
	}
	if len(s) > maxCodeLen {
		return Code{}, fmt.Errorf("code too long: %d bits", len(s))
	}
	var c Code
	for _, ch := range s {
		switch ch {
		case '0':
			c = c.push(0)
		case '1':
			c = c.push(1)
		default:
			return Code{}, fmt.Errorf("invalid code digit %q", ch)
		}
	}
	return c, nil
}
