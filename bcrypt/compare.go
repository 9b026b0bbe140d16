package bcrypt

import (
	"fmt"
	"strconv"
	"strings"
)

// HashWithSalt hashes password with an existing salt (or the salt prefix of
// an existing hash). It needs no randomness and is deterministic.
func HashWithSalt(password, salt string) (string, error) {
	d, s, err := prepare(password, salt)
	if err != nil {
		return "", err
	}
	d.step(d.rounds)
	return s.String() + d.digest(), nil
}

// Compare reports whether password matches hash. A hash that is not exactly
// HashLen characters, or that fails to parse, never matches.
func Compare(password, hash string) bool {
	if len(hash) != HashLen {
		return false
	}
	computed, err := HashWithSalt(password, hash[:SaltStringLen])
	if err != nil {
		return false
	}
	return SafeCompare(computed, hash)
}

// SafeCompare compares candidate against known in time that depends only on
// len(known), never on the position of the first difference.
func SafeCompare(known, candidate string) bool {
	diff := len(known) ^ len(candidate)
	for i := 0; i < len(known); i++ {
		var c byte
		if i < len(candidate) {
			c = candidate[i]
		}
		diff |= int(known[i] ^ c)
	}
	return diff == 0
}

// GetCost returns the cost recorded in hash. It is permissive: it reads the
// leading decimal digits of the third '$'-separated field and ignores the
// rest of the string.
func GetCost(hash string) (int, error) {
	parts := strings.SplitN(hash, "$", 4)
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: no cost field", ErrMalformedHash)
	}
	field := parts[2]
	end := 0
	for end < len(field) && isDigit(field[end]) {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: cost field %q has no digits", ErrMalformedHash, field)
	}
	cost, err := strconv.Atoi(field[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return cost, nil
}

// GetSalt returns the 29-character salt prefix of a complete hash.
func GetSalt(hash string) (string, error) {
	if len(hash) != HashLen {
		return "", fmt.Errorf("%w: length %d != %d", ErrMalformedHash, len(hash), HashLen)
	}
	return hash[:SaltStringLen], nil
}
