package huffword

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/huffword/symtab"
)

func TestCompressRoundTrip(t *testing.T) {
	const text = "call me ishmael. some years ago - never mind how long precisely -\n" +
		"having little or no money in my purse, i thought i would sail about"
	result, err := CompressString(text)
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}
	decoded, err := result.Archive.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if joined := strings.Join(decoded, ""); joined != text {
		t.Fatalf("round trip mismatch: %q", joined)
	}
	if result.Tokens != len(Tokenize(text)) {
		t.Fatalf("token count mismatch: got %d, want %d", result.Tokens, len(Tokenize(text)))
	}
	if result.Distinct != result.Archive.Codes.Len() {
		t.Fatalf("distinct count %d does not match code table size %d",
			result.Distinct, result.Archive.Codes.Len())
	}
}

func TestCompressMetrics(t *testing.T) {
	const text = "metrics, metrics, metrics. measured twice."
	result, err := CompressString(text)
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}
	if result.InputBytes != int64(len(text)) {
		t.Fatalf("input size mismatch: got %d, want %d", result.InputBytes, len(text))
	}
	if want := (result.Archive.BitLen + 7) / 8; result.OutputBytes() != want {
		t.Fatalf("output size mismatch: got %d, want %d", result.OutputBytes(), want)
	}
	if pad := result.PaddingBits(); pad < 0 || pad > 7 {
		t.Fatalf("padding out of range: %d", pad)
	}
	want := 100 - float64(result.OutputBytes())/float64(result.InputBytes)*100
	if result.Ratio() != want {
		t.Fatalf("ratio mismatch: got %v, want %v", result.Ratio(), want)
	}
}

func TestCompressShrinksRepetitiveText(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 50)
	result, err := CompressString(text)
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}
	if result.OutputBytes() >= result.InputBytes {
		t.Fatalf("repetitive text did not shrink: %d -> %d bytes",
			result.InputBytes, result.OutputBytes())
	}
	if result.Ratio() <= 0 {
		t.Fatalf("ratio not positive: %v", result.Ratio())
	}
}

func TestCompressEmptyInput(t *testing.T) {
	result, err := CompressString("")
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}
	if result.Tokens != 0 || result.InputBytes != 0 || result.OutputBytes() != 0 {
		t.Fatalf("empty input produced sizes: tokens=%d in=%d out=%d",
			result.Tokens, result.InputBytes, result.OutputBytes())
	}
	if result.Ratio() != 0 {
		t.Fatalf("empty input ratio: %v", result.Ratio())
	}
	decoded, err := result.Archive.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("empty input decoded to %q", decoded)
	}
}

func TestCompressDeterministic(t *testing.T) {
	const text = "tie tie some some tokens tokens, in stable order"
	first, err := CompressString(text)
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}
	second, err := CompressString(text)
	if err != nil {
		t.Fatalf("CompressString failed: %v", err)
	}
	if !bytes.Equal(first.Archive.Payload, second.Archive.Payload) {
		t.Fatalf("payloads differ between runs")
	}
	if first.Archive.BitLen != second.Archive.BitLen {
		t.Fatalf("bit counts differ between runs: %d vs %d",
			first.Archive.BitLen, second.Archive.BitLen)
	}
}

func TestCompressCapacityExhausted(t *testing.T) {
	_, err := Compress(strings.NewReader("a b c d e"), 3)
	if !errors.Is(err, symtab.ErrTableFull) {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
}
