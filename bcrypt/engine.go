package bcrypt

import (
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// maxKeyLen is the number of key bytes Blowfish can absorb (18 P-array words).
const maxKeyLen = 72

var magicCipherData = []byte("OrpheanBeholderScryDoubt")

// derivation is one EksBlowfish key schedule in progress. It can be run to
// completion in one call or advanced a chunk at a time; either way the
// rounds execute strictly in order.
type derivation struct {
	cipher *blowfish.Cipher
	key    []byte
	salt   []byte
	rounds uint64
	done   uint64
}

func newDerivation(password []byte, salt Salt) (*derivation, error) {
	if salt.Cost < MinCost || salt.Cost > MaxCost {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidCost, salt.Cost, MinCost, MaxCost)
	}

	// Every supported revision keys the cipher with the NUL terminator.
	key := make([]byte, 0, len(password)+1)
	key = append(key, password...)
	key = append(key, 0)
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}

	csalt := make([]byte, SaltLen)
	copy(csalt, salt.Bytes[:])

	c, err := blowfish.NewSaltedCipher(key, csalt)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: key setup: %w", err)
	}
	return &derivation{
		cipher: c,
		key:    key,
		salt:   csalt,
		rounds: uint64(1) << uint(salt.Cost),
	}, nil
}

// step runs up to n expensive rounds and reports whether the key schedule is
// complete.
func (d *derivation) step(n uint64) bool {
	for ; n > 0 && d.done < d.rounds; n-- {
		blowfish.ExpandKey(d.key, d.cipher)
		blowfish.ExpandKey(d.salt, d.cipher)
		d.done++
	}
	return d.done == d.rounds
}

func (d *derivation) progress() float64 {
	return float64(d.done) / float64(d.rounds)
}

// digest encrypts the magic plaintext 64 times and encodes the first 23
// bytes. It must only be called once step has returned true.
func (d *derivation) digest() string {
	cdata := make([]byte, len(magicCipherData))
	copy(cdata, magicCipherData)
	for i := 0; i < len(cdata); i += blowfish.BlockSize {
		for j := 0; j < 64; j++ {
			d.cipher.Encrypt(cdata[i:i+blowfish.BlockSize], cdata[i:i+blowfish.BlockSize])
		}
	}
	return string(encodeBase64(cdata[:digestLen]))
}

// prepare parses saltStr and sets up a derivation for password.
func prepare(password, saltStr string) (*derivation, Salt, error) {
	s, err := ParseSalt(saltStr)
	if err != nil {
		return nil, Salt{}, err
	}
	d, err := newDerivation([]byte(password), s)
	if err != nil {
		return nil, Salt{}, err
	}
	return d, s, nil
}
