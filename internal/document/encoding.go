package document

import (
	"unicode/utf8"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// PositionEncoding is the unit LSP's Position.character is counted in.
type PositionEncoding string

const (
	EncodingUTF8  PositionEncoding = "utf-8"
	EncodingUTF16 PositionEncoding = "utf-16"
	EncodingUTF32 PositionEncoding = "utf-32" // Unicode scalar values
)

// NegotiateEncoding picks the position encoding from a client's advertised
// set, preferring UTF-8, then UTF-16, then UTF-32 (spec.md §3). glsp's
// protocol_3_16 package predates LSP 3.17's positionEncoding capability,
// so nothing in the server calls this; the live
// `initialize` handler instead defaults to EncodingUTF16 (see
// internal/lsp), citing the same limitation noted in
// simon-lentz-yammm/lsp/server.go.
func NegotiateEncoding(clientSupported []PositionEncoding) PositionEncoding {
	preference := []PositionEncoding{EncodingUTF8, EncodingUTF16, EncodingUTF32}
	supported := make(map[PositionEncoding]bool, len(clientSupported))
	for _, e := range clientSupported {
		supported[e] = true
	}
	for _, p := range preference {
		if supported[p] {
			return p
		}
	}
	return EncodingUTF16
}

// charIndexInLine converts an LSP Position.character value, interpreted
// under enc, to a rune (char) index within line. Returns an out-of-range
// error if the offset exceeds the line.
func charIndexInLine(line string, character int, enc PositionEncoding) (int, error) {
	switch enc {
	case EncodingUTF8:
		return utf8ByteOffsetToCharIndex(line, character)
	case EncodingUTF16:
		return utf16OffsetToCharIndex(line, character)
	case EncodingUTF32:
		runes := utf8.RuneCountInString(line)
		if character < 0 || character > runes {
			return 0, errkind.Newf(errkind.OutOfBoundIndex, "character %d out of range for line of %d runes", character, runes)
		}
		return character, nil
	default:
		return 0, errkind.Newf(errkind.UnknownEncoding, "unknown position encoding %q", enc)
	}
}

// utf8ByteOffsetToCharIndex treats character as a byte offset into line's
// UTF-8 encoding and returns the corresponding rune index.
func utf8ByteOffsetToCharIndex(line string, byteOffset int) (int, error) {
	if byteOffset < 0 || byteOffset > len(line) {
		return 0, errkind.Newf(errkind.OutOfBoundIndex, "byte offset %d out of range for line of %d bytes", byteOffset, len(line))
	}
	return utf8.RuneCountInString(line[:byteOffset]), nil
}

// utf16OffsetToCharIndex treats character as a UTF-16 code-unit offset
// into line and returns the corresponding rune index, flooring mid-
// surrogate requests to the start of their rune (grounded on
// simon-lentz-yammm/lsp/posconv.go's utf16CharToByteOffset).
func utf16OffsetToCharIndex(line string, utf16Offset int) (int, error) {
	if utf16Offset < 0 {
		return 0, errkind.Newf(errkind.OutOfBoundIndex, "negative UTF-16 offset %d", utf16Offset)
	}
	if utf16Offset == 0 {
		return 0, nil
	}

	units := 0
	charIdx := 0
	for _, r := range line {
		if units >= utf16Offset {
			break
		}
		width := 1
		if r > 0xFFFF {
			width = 2
		}
		if units+width > utf16Offset {
			// The offset falls inside this rune's surrogate pair.
			return charIdx, nil
		}
		units += width
		charIdx++
	}
	if units < utf16Offset {
		return 0, errkind.Newf(errkind.OutOfBoundIndex, "UTF-16 offset %d out of range for line", utf16Offset)
	}
	return charIdx, nil
}
