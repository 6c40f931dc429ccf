package huffword

import (
	"bytes"
	"io"
	"strings"
	"time"
)

const kilo = 1024.0

// KB converts a byte count to kilobytes for the size metrics.
func KB(n int64) float64 {
	return float64(n) / kilo
}

// Result carries the outcome of one compression run.
type Result struct {
	Archive    *Archive
	Tokens     int   // tokens in the input, separators included
	Distinct   int   // distinct tokens, equals the code table size
	InputBytes int64 // uncompressed input size
	Elapsed    time.Duration
}

// OutputBytes is the compressed size: the packed payload bytes, padding
// included.
func (r *Result) OutputBytes() int64 {
	return int64(len(r.Archive.Payload))
}

// PaddingBits is the number of zero bits appended to fill the last
// payload byte.
func (r *Result) PaddingBits() int {
	return int(r.OutputBytes()*8 - r.Archive.BitLen)
}

// Ratio is the saving in percent, 100 minus the compressed share of the
// uncompressed size. Empty inputs yield 0.
func (r *Result) Ratio() float64 {
	if r.InputBytes == 0 {
		return 0
	}
	return 100 - float64(r.OutputBytes())/float64(r.InputBytes)*100
}

type countingReader struct {
	reader io.Reader
	read   int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.read += int64(n)
	return n, err
}

// Compress tokenizes r, derives a prefix-free code from the token census,
// and packs the token sequence into an archive.
//
// capacity bounds the number of distinct tokens the census may hold;
// DefaultTableCap suits ordinary texts. The input is drained completely.
func Compress(r io.Reader, capacity int) (*Result, error) {
	start := time.Now()
	counting := &countingReader{reader: r}
	freq, sequence, err := CountTokens(NewTokenizer(counting), capacity)
	if err != nil {
		return nil, err
	}
	codes, err := DeriveCodes(BuildTree(freq), capacity)
	if err != nil {
		return nil, err
	}
	var packed bytes.Buffer
	bits, err := EncodeTokens(sequence, codes, &packed)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Archive:    &Archive{Codes: codes, BitLen: bits, Payload: packed.Bytes()},
		Tokens:     len(sequence),
		Distinct:   freq.Len(),
		InputBytes: counting.read,
		Elapsed:    time.Since(start),
	}
	freq.Stats()
	tracer().Infof("compressed %d tokens (%d distinct): %.4f KB -> %.4f KB, ratio %.4f%%",
		result.Tokens, result.Distinct, KB(result.InputBytes), KB(result.OutputBytes()), result.Ratio())
	return result, nil
}

// CompressString compresses text with the default census capacity.
func CompressString(text string) (*Result, error) {
	return Compress(strings.NewReader(text), DefaultTableCap)
}
