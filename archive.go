package huffword

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/npillmayer/huffword/symtab"
)

const (
	archiveMagic   = "HUFW"
	archiveVersion = uint16(1)

	maxArchiveEntries = 1 << 24
	maxTokenBytes     = 1 << 20
	maxPayloadBytes   = 1 << 30
)

// Archive bundles everything needed to restore a text: the code table,
// the packed payload, and the payload bit count that tells payload bits
// from padding bits.
//
// Wire format (version 1), all integers little-endian:
//
//	magic[4] = "HUFW"
//	version  = uint16
//	entryCnt = uint32
//	bitLen   = uint64
//	repeat entryCnt times:
//	  tokenLen = uint32
//	  codeLen  = uint8
//	  codeBits = uint64
//	  token    = tokenLen bytes
//	payloadLen = uint32
//	payload    = payloadLen bytes
type Archive struct {
	Codes   *symtab.Table[Code]
	BitLen  int64
	Payload []byte
}

// Decode restores the token sequence from the archive's payload.
func (a *Archive) Decode() ([]string, error) {
	if a.Codes == nil {
		return nil, fmt.Errorf("archive carries no code table")
	}
	dec, err := NewDecoder(a.Codes)
	if err != nil {
		return nil, err
	}
	return dec.Decode(a.Payload, a.BitLen)
}

func (a *Archive) validate() error {
	if a.Codes == nil {
		return fmt.Errorf("archive carries no code table")
	}
	if a.Codes.Len() > maxArchiveEntries {
		return fmt.Errorf("too many code entries: %d", a.Codes.Len())
	}
	if a.BitLen < 0 {
		return fmt.Errorf("negative payload bit count %d", a.BitLen)
	}
	if len(a.Payload) > maxPayloadBytes {
		return fmt.Errorf("payload too large: %d bytes", len(a.Payload))
	}
	if want := (a.BitLen + 7) / 8; int64(len(a.Payload)) != want {
		return fmt.Errorf("payload of %d bytes cannot hold %d bits", len(a.Payload), a.BitLen)
	}
	if a.Codes.Len() == 0 && a.BitLen != 0 {
		return fmt.Errorf("payload bits without code entries")
	}
	keys := a.Codes.Keys()
	values := a.Codes.Values()
	for i, token := range keys {
		code := values[i]
		if len(token) == 0 {
			return fmt.Errorf("empty token at entry %d", i)
		}
		if len(token) > maxTokenBytes {
			return fmt.Errorf("token at entry %d too large: %d bytes", i, len(token))
		}
		if code.Len == 0 || code.Len > maxCodeLen {
			return fmt.Errorf("code length of token %q out of range: %d", token, code.Len)
		}
		if code.Bits>>code.Len != 0 {
			return fmt.Errorf("code of token %q has bits beyond its length", token)
		}
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// WriteTo serializes the archive.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := a.validate(); err != nil {
		return 0, fmt.Errorf("invalid archive: %w", err)
	}

	var total int64
	n, err := writeBytes(w, []byte(archiveMagic))
	total += n
	if err != nil {
		return total, err
	}
	if err := binary.Write(w, binary.LittleEndian, archiveVersion); err != nil {
		return total, err
	}
	total += 2
	if err := binary.Write(w, binary.LittleEndian, uint32(a.Codes.Len())); err != nil {
		return total, err
	}
	total += 4
	if err := binary.Write(w, binary.LittleEndian, uint64(a.BitLen)); err != nil {
		return total, err
	}
	total += 8

	keys := a.Codes.Keys()
	values := a.Codes.Values()
	for i, token := range keys {
		code := values[i]
		if err := binary.Write(w, binary.LittleEndian, uint32(len(token))); err != nil {
			return total, err
		}
		total += 4
		if err := binary.Write(w, binary.LittleEndian, code.Len); err != nil {
			return total, err
		}
		total += 1
		if err := binary.Write(w, binary.LittleEndian, code.Bits); err != nil {
			return total, err
		}
		total += 8
		n, err := writeBytes(w, []byte(token))
		total += n
		if err != nil {
			return total, err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Payload))); err != nil {
		return total, err
	}
	total += 4
	n, err = writeBytes(w, a.Payload)
	total += n
	if err != nil {
		return total, err
	}
	return total, nil
}

// ReadFrom deserializes an archive, replacing the receiver's contents.
// The receiver is left untouched when reading fails.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	var magic [4]byte
	n, err := io.ReadFull(r, magic[:])
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("reading archive magic: %w", err)
	}
	if string(magic[:]) != archiveMagic {
		return total, fmt.Errorf("invalid archive magic %q", string(magic[:]))
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return total, fmt.Errorf("reading archive version: %w", err)
	}
	total += 2
	if version != archiveVersion {
		return total, fmt.Errorf("unsupported archive version %d", version)
	}

	var entryCnt uint32
	if err := binary.Read(r, binary.LittleEndian, &entryCnt); err != nil {
		return total, fmt.Errorf("reading entry count: %w", err)
	}
	total += 4
	if entryCnt > maxArchiveEntries {
		return total, fmt.Errorf("too many code entries: %d", entryCnt)
	}

	var bitLen uint64
	if err := binary.Read(r, binary.LittleEndian, &bitLen); err != nil {
		return total, fmt.Errorf("reading payload bit count: %w", err)
	}
	total += 8
	if bitLen > maxPayloadBytes*8 {
		return total, fmt.Errorf("payload bit count too large: %d", bitLen)
	}
	if entryCnt == 0 && bitLen != 0 {
		return total, fmt.Errorf("payload bits without code entries")
	}

	// Header counts are claims, not facts. Entries are staged into a
	// slice that grows with the bytes actually read, and the code table
	// is sized from that once the stream has delivered them all.
	type entry struct {
		token string
		code  Code
	}
	var entries []entry
	for i := uint32(0); i < entryCnt; i++ {
		var tokenLen uint32
		if err := binary.Read(r, binary.LittleEndian, &tokenLen); err != nil {
			return total, fmt.Errorf("reading token length of entry %d: %w", i, err)
		}
		total += 4
		if tokenLen == 0 {
			return total, fmt.Errorf("empty token at entry %d", i)
		}
		if tokenLen > maxTokenBytes {
			return total, fmt.Errorf("token at entry %d too large: %d bytes", i, tokenLen)
		}
		var code Code
		if err := binary.Read(r, binary.LittleEndian, &code.Len); err != nil {
			return total, fmt.Errorf("reading code length of entry %d: %w", i, err)
		}
		total += 1
		if code.Len == 0 || code.Len > maxCodeLen {
			return total, fmt.Errorf("code length of entry %d out of range: %d", i, code.Len)
		}
		if err := binary.Read(r, binary.LittleEndian, &code.Bits); err != nil {
			return total, fmt.Errorf("reading code bits of entry %d: %w", i, err)
		}
		total += 8
		if code.Bits>>code.Len != 0 {
			return total, fmt.Errorf("code of entry %d has bits beyond its length", i)
		}
		tokenBytes := make([]byte, tokenLen)
		n, err := io.ReadFull(r, tokenBytes)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("reading token of entry %d: %w", i, err)
		}
		entries = append(entries, entry{token: string(tokenBytes), code: code})
	}

	codes, err := symtab.New[Code](2*len(entries) + 1)
	if err != nil {
		return total, err
	}
	for i, e := range entries {
		if codes.Contains(e.token) {
			return total, fmt.Errorf("duplicate token %q at entry %d", e.token, i)
		}
		if err := codes.Put(e.token, e.code); err != nil {
			return total, fmt.Errorf("storing entry %d: %w", i, err)
		}
	}

	var payloadLen uint32
	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return total, fmt.Errorf("reading payload length: %w", err)
	}
	total += 4
	if payloadLen > maxPayloadBytes {
		return total, fmt.Errorf("payload too large: %d bytes", payloadLen)
	}
	if want := (bitLen + 7) / 8; uint64(payloadLen) != want {
		return total, fmt.Errorf("payload of %d bytes cannot hold %d bits", payloadLen, bitLen)
	}
	payload, err := io.ReadAll(io.LimitReader(r, int64(payloadLen)))
	total += int64(len(payload))
	if err != nil {
		return total, fmt.Errorf("reading payload: %w", err)
	}
	if len(payload) != int(payloadLen) {
		return total, fmt.Errorf("reading payload: %w", io.ErrUnexpectedEOF)
	}

	*a = Archive{Codes: codes, BitLen: int64(bitLen), Payload: payload}
	return total, nil
}
