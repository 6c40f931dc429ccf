// Package codesfile reads and writes Huffman code tables as text files.
//
// Two formats are covered. The listing is the classic human-oriented
// codes.txt: comma-separated "(bits=token)" pairs, five to a line. Tokens
// appear raw, so separators like newlines make the listing ambiguous; it
// is write-only. The table format is strict and round-trips: a header
// line, then one quoted token and its bit string per line, tab-separated.
package codesfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/huffword"
	"github.com/npillmayer/huffword/symtab"
)

const tableHeader = "# huffword codes v1"

// WriteListing writes the human-oriented listing of codes to w. Entries
// appear in table slot order, a line break after every fifth pair.
func WriteListing(w io.Writer, codes *symtab.Table[huffword.Code]) error {
	bw := bufio.NewWriter(w)
	keys := codes.Keys()
	values := codes.Values()
	for i, token := range keys {
		fmt.Fprintf(bw, "(%s=%s), ", values[i].String(), token)
		if (i+1)%5 == 0 {
			fmt.Fprint(bw, "\n")
		}
	}
	return bw.Flush()
}

// WriteTable writes the strict machine-readable table of codes to w.
// Tokens are Go-quoted, so tokens holding newlines, tabs or quotes stay
// on one line.
func WriteTable(w io.Writer, codes *symtab.Table[huffword.Code]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, tableHeader)
	keys := codes.Keys()
	values := codes.Values()
	for i, token := range keys {
		fmt.Fprintf(bw, "%s\t%s\n", strconv.Quote(token), values[i].String())
	}
	return bw.Flush()
}

// TableReader streams code table entries from the strict format.
type TableReader struct {
	scanner    *bufio.Scanner
	line       int
	headerSeen bool
}

func NewTableReader(reader io.Reader) *TableReader {
	return &TableReader{
		scanner: bufio.NewScanner(reader),
	}
}

// Next returns the next entry as (token, code).
// It returns io.EOF when exhausted.
func (r *TableReader) Next() (string, huffword.Code, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		if !r.headerSeen {
			if line != tableHeader {
				return "", huffword.Code{}, fmt.Errorf("line %d: not a code table (header is %q)", r.line, line)
			}
			r.headerSeen = true
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quoted, bits, found := strings.Cut(line, "\t")
		if !found {
			return "", huffword.Code{}, fmt.Errorf("line %d: missing tab separator", r.line)
		}
		token, err := strconv.Unquote(quoted)
		if err != nil {
			return "", huffword.Code{}, fmt.Errorf("line %d: bad token %s: %v", r.line, quoted, err)
		}
		if token == "" {
			return "", huffword.Code{}, fmt.Errorf("line %d: empty token", r.line)
		}
		code, err := huffword.ParseCode(bits)
		if err != nil {
			return "", huffword.Code{}, fmt.Errorf("line %d: %v", r.line, err)
		}
		return token, code, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", huffword.Code{}, err
	}
	if !r.headerSeen {
		return "", huffword.Code{}, fmt.Errorf("empty input: missing header %q", tableHeader)
	}
	return "", huffword.Code{}, io.EOF
}

// ReadTable drains reader into a fresh table with the given capacity.
func ReadTable(reader io.Reader, capacity int) (*symtab.Table[huffword.Code], error) {
	codes, err := symtab.New[huffword.Code](capacity)
	if err != nil {
		return nil, err
	}
	r := NewTableReader(reader)
	for {
		token, code, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if codes.Contains(token) {
			return nil, fmt.Errorf("line %d: duplicate token %q", r.line, token)
		}
		if err := codes.Put(token, code); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
	}
	return codes, nil
}
