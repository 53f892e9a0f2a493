package conv

const hexd = "0123456789ABCDEF"

// AppendByteHex appends the two-digit uppercase hex form of b (no 0x).
func AppendByteHex(dst []byte, b byte) []byte {
	return append(dst, hexd[b>>4], hexd[b&0xF])
}

// AppendHexDump appends each byte of src as two hex digits separated by a
// single space ("41 42 43"). Stops early if dst would exceed max bytes;
// max <= 0 means unbounded.
func AppendHexDump(dst, src []byte, max int) []byte {
	for i, b := range src {
		need := 2
		if i > 0 {
			need = 3
		}
		if max > 0 && len(dst)+need > max {
			break
		}
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = AppendByteHex(dst, b)
	}
	return dst
}
