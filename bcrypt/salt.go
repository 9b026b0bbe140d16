package bcrypt

import (
	"fmt"
)

const (
	// MinCost is the lowest accepted cost factor.
	MinCost = 4
	// MaxCost is the highest accepted cost factor.
	MaxCost = 31
	// DefaultCost is used when no cost is given.
	DefaultCost = 10

	// SaltLen is the number of raw salt bytes.
	SaltLen = 16
	// SaltStringLen is the length of "$2a$NN$" plus the 22 encoded salt chars.
	SaltStringLen = 29
	// HashLen is the length of a complete hash string.
	HashLen = 60

	// DefaultVersion is the revision written into generated salts.
	DefaultVersion = "2a"

	saltEncodedLen   = 22
	digestLen        = 23
	digestEncodedLen = 31
)

var knownVersions = map[string]bool{
	"2a": true,
	"2b": true,
	"2y": true,
}

// Salt is the parsed form of "$<version>$<cost>$<salt>".
type Salt struct {
	Version string
	Cost    int
	Bytes   [SaltLen]byte
}

// ClampCost forces cost into [MinCost, MaxCost].
func ClampCost(cost int) int {
	switch {
	case cost < MinCost:
		return MinCost
	case cost > MaxCost:
		return MaxCost
	default:
		return cost
	}
}

// NewSalt builds a salt from exactly SaltLen bytes of entropy. The cost is
// clamped, not rejected.
func NewSalt(cost int, entropy []byte) (Salt, error) {
	if len(entropy) != SaltLen {
		return Salt{}, fmt.Errorf("%w: salt needs %d bytes of entropy, got %d", ErrIllegalArgument, SaltLen, len(entropy))
	}
	s := Salt{Version: DefaultVersion, Cost: ClampCost(cost)}
	copy(s.Bytes[:], entropy)
	return s, nil
}

// String renders the 29-character salt prefix.
func (s Salt) String() string {
	return fmt.Sprintf("$%s$%02d$%s", s.Version, s.Cost, encodeBase64(s.Bytes[:]))
}

// ParseSalt parses a 29-character salt or the salt prefix of a 60-character
// hash. Any other shape is ErrMalformedHash; a well-formed cost outside
// [MinCost, MaxCost] is ErrInvalidCost.
func ParseSalt(s string) (Salt, error) {
	if len(s) != SaltStringLen && len(s) != HashLen {
		return Salt{}, fmt.Errorf("%w: length %d, want %d or %d", ErrMalformedHash, len(s), SaltStringLen, HashLen)
	}
	if s[0] != '$' || s[3] != '$' || s[6] != '$' {
		return Salt{}, fmt.Errorf("%w: bad separators", ErrMalformedHash)
	}

	version := s[1:3]
	if !knownVersions[version] {
		return Salt{}, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, version)
	}

	if !isDigit(s[4]) || !isDigit(s[5]) {
		return Salt{}, fmt.Errorf("%w: cost %q is not two digits", ErrMalformedHash, s[4:6])
	}
	cost := int(s[4]-'0')*10 + int(s[5]-'0')
	if cost < MinCost || cost > MaxCost {
		return Salt{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidCost, cost, MinCost, MaxCost)
	}

	for i := 7; i < len(s); i++ {
		if decodeMap[s[i]] < 0 {
			return Salt{}, fmt.Errorf("%w: invalid character %q at %d", ErrMalformedHash, s[i], i)
		}
	}

	raw := decodeBase64(s[7:SaltStringLen], SaltLen)
	if len(raw) != SaltLen {
		return Salt{}, fmt.Errorf("%w: salt decodes to %d bytes", ErrMalformedHash, len(raw))
	}

	out := Salt{Version: version, Cost: cost}
	copy(out.Bytes[:], raw)
	return out, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
