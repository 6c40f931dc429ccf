package huffword

import (
	"bytes"
	"errors"
	"testing"
)

func encodeText(t *testing.T, text string) ([]byte, int64) {
	t.Helper()
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
	return buf.Bytes(), bits
}

func TestEncodePacksMSBFirstWithZeroPadding(t *testing.T) {
	// "!!?" is the token sequence [! ! ?] with codes !="1" and ?="0",
	// so the bit stream "110" fills one byte as 11000000
	packed, bits := encodeText(t, "!!?")
	if bits != 3 {
		t.Fatalf("payload bit count mismatch: got %d, want 3", bits)
	}
	if !bytes.Equal(packed, []byte{0xC0}) {
		t.Fatalf("packed bytes mismatch: got %#v, want [0xC0]", packed)
	}
}

func TestEncodeByteBoundary(t *testing.T) {
	// eight alternating separators carry one bit each, exactly one byte
	packed, bits := encodeText(t, "!?!?!?!?")
	if bits != 8 {
		t.Fatalf("payload bit count mismatch: got %d, want 8", bits)
	}
	if len(packed) != 1 {
		t.Fatalf("packed length mismatch: got %d bytes, want 1", len(packed))
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	packed, bits := encodeText(t, "")
	if bits != 0 {
		t.Fatalf("empty input produced %d bits", bits)
	}
	if len(packed) != 0 {
		t.Fatalf("empty input produced bytes: %#v", packed)
	}
}

func TestEncodeSingleToken(t *testing.T) {
	// four dots are four occurrences of the lone token ".", which
	// carries the code "0": four payload bits in one padded byte
	packed, bits := encodeText(t, "....")
	if bits != 4 {
		t.Fatalf("payload bit count mismatch: got %d, want 4", bits)
	}
	if !bytes.Equal(packed, []byte{0x00}) {
		t.Fatalf("packed bytes mismatch: got %#v, want [0x00]", packed)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	const text = "determinism, determinism, determinism!"
	first, _ := encodeText(t, text)
	second, _ := encodeText(t, text)
	if !bytes.Equal(first, second) {
		t.Fatalf("encoding twice differs: %#v vs %#v", first, second)
	}
}

func TestEncodeMissingCode(t *testing.T) {
	freq, _ := censusOf(t, "known tokens only")
	codes, err := DeriveCodes(BuildTree(freq), 256)
	if err != nil {
		t.Fatalf("DeriveCodes failed: %v", err)
	}
	var buf bytes.Buffer
	_, err = EncodeTokens([]string{"known", "stranger"}, codes, &buf)
	if !errors.Is(err, ErrNoCode) {
		t.Fatalf("expected ErrNoCode, got %v", err)
	}
}
