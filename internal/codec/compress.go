package codec

import (
	"fmt"
	"math/bits"
)

const maxItemCount = 1<<24 - 1

// escapeCode is the 3-bit normal-stream value that routes a symbol to the
// 5-bit exception stream. Symbols 0..6 are written directly in the normal
// stream; symbol 0 is reserved as the per-item terminator.
const escapeCode = 7

// Compress packs a sequence of fingerprint items into the wire format: a
// 4-byte header (algorithm id, 24-bit big-endian item count) followed by a
// packed 3-bit "normal" symbol stream and a packed 5-bit "exception" symbol
// stream.
//
// Each item is encoded as the XOR delta against the previous item (0 for the
// first), bit-reversed, then decomposed into a run of "highest set bit"
// symbols: repeatedly take the position p of the highest set bit, emit
// symbol p+1, clear bit p, and repeat; the run ends with symbol 0. A symbol
// in 1..6 is written directly in the normal stream; a symbol in 7..32 is
// escaped (normal stream gets escapeCode, and the exception stream gets
// symbol-escapeCode, which always fits 0..25 and therefore 5 bits).
func Compress(algorithm int, items []uint32) ([]byte, error) {
	if len(items) > maxItemCount {
		return nil, fmt.Errorf("codec: %d items exceeds the 24-bit item count limit", len(items))
	}
	if algorithm < 0 || algorithm > 0xff {
		return nil, fmt.Errorf("codec: algorithm id %d does not fit a byte", algorithm)
	}

	var normal, exception bitWriter
	var prev uint32
	for _, item := range items {
		delta := reverse32(item ^ prev)
		prev = item
		writeDeltaSymbols(delta, &normal, &exception)
	}

	normalBytes := normal.Bytes()
	exceptionBytes := exception.Bytes()

	out := make([]byte, 4, 4+len(normalBytes)+len(exceptionBytes))
	out[0] = byte(algorithm)
	n := len(items)
	out[1] = byte(n >> 16)
	out[2] = byte(n >> 8)
	out[3] = byte(n)
	out = append(out, normalBytes...)
	out = append(out, exceptionBytes...)
	return out, nil
}

func writeDeltaSymbols(delta uint32, normal, exception *bitWriter) {
	x := delta
	for x != 0 {
		p := bits.Len32(x) - 1
		symbol := p + 1
		x &^= 1 << uint(p)
		writeSymbol(symbol, normal, exception)
	}
	writeSymbol(0, normal, exception)
}

func writeSymbol(symbol int, normal, exception *bitWriter) {
	if symbol <= 6 {
		normal.WriteBits(uint32(symbol), 3)
		return
	}
	normal.WriteBits(escapeCode, 3)
	exception.WriteBits(uint32(symbol-escapeCode), 5)
}
