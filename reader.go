package lzend

import (
	"bufio"
	"hash/crc32"
	"io"

	"github.com/lzend/lzend/parsing"
)

// DecodeAll reads an entire LZ-End phrase stream from rd and returns the
// decoded text. Decoding rebuilds the phrase store from the wire format
// and then reconstructs the text in a single reverse pass over the whole
// store, so (unlike Writer) there is no benefit to a streaming API here:
// the last phrase's bytes can depend on a link that is only resolvable
// once every phrase up to it is known.
//
// If the stream carries an integrity trailer, its CRC-32 is checked
// against the decoded text; a mismatch is reported as ErrCorrupt.
func DecodeAll(rd io.Reader) ([]byte, error) {
	br := bufio.NewReader(rd)
	store := parsing.New()

	var trailerLen uint64
	var trailerCRC uint32
	haveTrailer := false

loop:
	for {
		flag, err := br.ReadByte()
		switch err {
		case nil:
		case io.EOF:
			break loop
		default:
			return nil, err
		}

		switch flag {
		case flagLiteral:
			last, err := br.ReadByte()
			if err != nil {
				return nil, io.ErrUnexpectedEOF
			}
			store.Append(0, 1, last)

		case flagBackref:
			link, err := readUvarint(br)
			if err != nil {
				return nil, err
			}
			length, err := readUvarint(br)
			if err != nil {
				return nil, err
			}
			last, err := br.ReadByte()
			if err != nil {
				return nil, io.ErrUnexpectedEOF
			}
			if link > uint64(store.Len()) || length < 2 {
				return nil, ErrCorrupt
			}
			store.Append(uint32(link), uint32(length), last)

		case flagTrailer:
			n, err := readUvarint(br)
			if err != nil {
				return nil, err
			}
			var crcBuf [4]byte
			if _, err := io.ReadFull(br, crcBuf[:]); err != nil {
				return nil, io.ErrUnexpectedEOF
			}
			trailerLen = n
			trailerCRC = uint32(crcBuf[0]) | uint32(crcBuf[1])<<8 | uint32(crcBuf[2])<<16 | uint32(crcBuf[3])<<24
			haveTrailer = true
			break loop

		default:
			return nil, ErrCorrupt
		}
	}

	text := make([]byte, 0, store.TextLen())
	if store.Len() > 0 {
		store.DecodeReverseFromEndOf(uint32(store.Len()), uint32(store.TextLen()), func(b byte) bool {
			text = append(text, b)
			return true
		})
		for i, j := 0, len(text)-1; i < j; i, j = i+1, j-1 {
			text[i], text[j] = text[j], text[i]
		}
	}

	if haveTrailer {
		if trailerLen != uint64(len(text)) {
			return nil, ErrCorrupt
		}
		if crc32.ChecksumIEEE(text) != trailerCRC {
			return nil, ErrCorrupt
		}
	}
	return text, nil
}
