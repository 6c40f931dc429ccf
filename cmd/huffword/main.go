package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/huffword"
	"github.com/npillmayer/huffword/codesfile"
	"github.com/npillmayer/huffword/symtab"
)

func main() {
	inputPath := flag.String("i", "", "text file to compress")
	codesPath := flag.String("codes", "codes.txt", "where to write the code listing")
	outputPath := flag.String("o", "compressed.txt", "where to write the packed payload")
	archivePath := flag.String("archive", "", "optionally write a self-contained archive")
	tablePath := flag.String("table", "", "optionally write the strict code table")
	tableCap := flag.Int("tablecap", huffword.DefaultTableCap, "census capacity, distinct tokens")
	verify := flag.Bool("verify", false, "decode the payload again and compare")
	flag.Parse()

	if *inputPath == "" {
		log.Fatalf("no input file, use -i")
	}

	start := time.Now()
	text, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("reading %s: %v", *inputPath, err)
	}
	result, err := huffword.Compress(bytes.NewReader(text), *tableCap)
	if err != nil {
		log.Fatalf("compressing %s: %v", *inputPath, err)
	}

	if err := writeCodes(*codesPath, result.Archive.Codes); err != nil {
		log.Fatalf("writing codes: %v", err)
	}
	if err := os.WriteFile(*outputPath, result.Archive.Payload, 0644); err != nil {
		log.Fatalf("writing payload: %v", err)
	}
	if *archivePath != "" {
		if err := writeArchive(*archivePath, result.Archive); err != nil {
			log.Fatalf("writing archive: %v", err)
		}
	}
	if *tablePath != "" {
		if err := writeTable(*tablePath, result.Archive.Codes); err != nil {
			log.Fatalf("writing table: %v", err)
		}
	}

	if *verify {
		tokens, err := result.Archive.Decode()
		if err != nil {
			log.Fatalf("decoding payload: %v", err)
		}
		if strings.Join(tokens, "") != string(text) {
			log.Fatalf("round trip mismatch: decoded text differs from %s", *inputPath)
		}
		fmt.Println("Round trip verified.")
	}

	fmt.Printf("Time Elapsed: %d ms\n", time.Since(start).Milliseconds())
	fmt.Printf("Uncompressed file size: %.4f KB\n", huffword.KB(result.InputBytes))
	fmt.Printf("Compressed file size: %.4f KB\n", huffword.KB(result.OutputBytes()))
	fmt.Printf("Compression ratio: %.4f%%\n", result.Ratio())
}

func writeCodes(path string, codes *symtab.Table[huffword.Code]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := codesfile.WriteListing(f, codes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTable(path string, codes *symtab.Table[huffword.Code]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := codesfile.WriteTable(f, codes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeArchive(path string, a *huffword.Archive) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := a.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
