package bcrypt

import "fmt"

// alphabet is bcrypt's base64 variant. It is not RFC 4648 and has no padding.
const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var decodeMap = func() (m [256]int8) {
	for i := range m {
		m[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = int8(i)
	}
	return m
}()

// EncodeBase64 encodes the first n bytes of b with the bcrypt alphabet.
// A trailing group of one or two bytes takes two or three characters.
func EncodeBase64(b []byte, n int) (string, error) {
	if n <= 0 || n > len(b) {
		return "", fmt.Errorf("%w: encode length %d not in [1, %d]", ErrIllegalArgument, n, len(b))
	}
	return string(encodeBase64(b[:n])), nil
}

// DecodeBase64 decodes at most n bytes from s. Decoding stops early at the
// end of s or at the first character outside the alphabet, so the result may
// be shorter than n.
func DecodeBase64(s string, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: decode length %d", ErrIllegalArgument, n)
	}
	return decodeBase64(s, n), nil
}

func encodeBase64(b []byte) []byte {
	out := make([]byte, 0, (len(b)*4+2)/3)
	for off := 0; off < len(b); {
		c1 := b[off]
		off++
		out = append(out, alphabet[c1>>2])
		c1 = (c1 & 0x03) << 4
		if off >= len(b) {
			out = append(out, alphabet[c1])
			break
		}

		c2 := b[off]
		off++
		c1 |= c2 >> 4
		out = append(out, alphabet[c1])
		c1 = (c2 & 0x0f) << 2
		if off >= len(b) {
			out = append(out, alphabet[c1])
			break
		}

		c2 = b[off]
		off++
		c1 |= c2 >> 6
		out = append(out, alphabet[c1], alphabet[c2&0x3f])
	}
	return out
}

func decodeBase64(s string, n int) []byte {
	out := make([]byte, 0, n)
	off := 0
	for off < len(s)-1 && len(out) < n {
		c1, c2 := decodeMap[s[off]], decodeMap[s[off+1]]
		off += 2
		if c1 < 0 || c2 < 0 {
			break
		}
		out = append(out, byte(c1)<<2|byte(c2&0x30)>>4)
		if len(out) >= n || off >= len(s) {
			break
		}

		c3 := decodeMap[s[off]]
		off++
		if c3 < 0 {
			break
		}
		out = append(out, byte(c2&0x0f)<<4|byte(c3&0x3c)>>2)
		if len(out) >= n || off >= len(s) {
			break
		}

		c4 := decodeMap[s[off]]
		off++
		if c4 < 0 {
			break
		}
		out = append(out, byte(c3&0x03)<<6|byte(c4))
	}
	return out
}
