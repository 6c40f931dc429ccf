package huffword

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/huffword/symtab"
)

// handTable builds a code table from rendered code strings.
func handTable(t *testing.T, codes map[string]string) *symtab.Table[Code] {
	t.Helper()
	table, err := symtab.New[Code](16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for token, rendered := range codes {
		code, err := ParseCode(rendered)
		if err != nil {
			t.Fatalf("ParseCode(%q) failed: %v", rendered, err)
		}
		if err := table.Put(token, code); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	return table
}

func TestDecodeRoundTrip(t *testing.T) {
	const text = "o for a muse of fire, that would ascend\nthe brightest heaven of invention"
	freq, sequence := censusOf(t, text)
	codes, err := DeriveCodes(BuildTree(freq), 256)
	if err != nil {
		t.Fatalf("DeriveCodes failed: %v", err)
	}
	var buf bytes.Buffer
	bits, err := EncodeTokens(sequence, codes, &buf)
	if err != nil {
		t.Fatalf("EncodeTokens failed: %v", err)
	}
	dec, err := NewDecoder(codes)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	decoded, err := dec.Decode(buf.Bytes(), bits)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, sequence) {
		t.Fatalf("round trip mismatch:\ngot  %q\nwant %q", decoded, sequence)
	}
	if joined := strings.Join(decoded, ""); joined != text {
		t.Fatalf("decoded tokens do not reassemble the text: %q", joined)
	}
}

func TestDecodeSingleToken(t *testing.T) {
	// four payload bits of the lone code "0", padded to one byte
	dec, err := NewDecoder(handTable(t, map[string]string{".": "0"}))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	decoded, err := dec.Decode([]byte{0x00}, 4)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, []string{".", ".", ".", "."}) {
		t.Fatalf("decoded mismatch: %q", decoded)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	dec, err := NewDecoder(handTable(t, map[string]string{"a": "0", "b": "1"}))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	decoded, err := dec.Decode(nil, 0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("empty payload decoded to %q", decoded)
	}
}

func TestDecodeRejectsDanglingBits(t *testing.T) {
	dec, err := NewDecoder(handTable(t, map[string]string{"x": "0", "y": "10", "z": "11"}))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	// bits "01" resolve "0"=x and leave the lone "1" dangling
	_, err = dec.Decode([]byte{0x40}, 2)
	if !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("expected ErrCorruptStream, got %v", err)
	}
}

func TestDecodeRejectsUnresolvableRun(t *testing.T) {
	// "11" is not assigned, so the run can never resolve
	dec, err := NewDecoder(handTable(t, map[string]string{"x": "00", "y": "01", "z": "10"}))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	_, err = dec.Decode([]byte{0xE0}, 3)
	if !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("expected ErrCorruptStream, got %v", err)
	}
}

func TestDecodeRejectsPayloadLengthMismatch(t *testing.T) {
	dec, err := NewDecoder(handTable(t, map[string]string{"x": "0", "y": "1"}))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	if _, err := dec.Decode([]byte{0x00}, 0); !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("expected ErrCorruptStream for surplus byte, got %v", err)
	}
	if _, err := dec.Decode(nil, 3); !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("expected ErrCorruptStream for missing bytes, got %v", err)
	}
	if _, err := dec.Decode([]byte{0x00}, -1); err == nil {
		t.Fatalf("negative bit count accepted")
	}
}

func TestNewDecoderRejectsPrefixCollision(t *testing.T) {
	_, err := NewDecoder(handTable(t, map[string]string{"a": "0", "b": "00"}))
	if !errors.Is(err, ErrNotPrefixFree) {
		t.Fatalf("expected ErrNotPrefixFree, got %v", err)
	}
}

func TestNewDecoderRejectsEmptyCode(t *testing.T) {
	table, err := symtab.New[Code](4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := table.Put("a", Code{}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := NewDecoder(table); err == nil {
		t.Fatalf("empty code accepted")
	}
}
