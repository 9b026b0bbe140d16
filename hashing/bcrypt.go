package hashing

import (
	"fmt"
	"log/slog"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/random"
)

const (
	// DefaultBcryptCost is the recommended work factor for bcrypt.
	// At cost 12, hashing takes approximately 250 ms on a modern server CPU.
	//
	// Increase this value as hardware improves; aim to keep hashing time
	// between 100 ms and 500 ms for your deployment environment.
	DefaultBcryptCost = 12
)

// BcryptOptions configures a [BcryptHasher].
type BcryptOptions struct {
	// Cost is the bcrypt work factor (logarithmic).
	// Valid range: [bcrypt.MinCost (4), bcrypt.MaxCost (31)].
	Cost int

	// Version is the revision written into new hashes. Empty means
	// [bcrypt.DefaultVersion].
	Version string

	// Provider supplies salt bytes. Nil means [random.Default].
	Provider *random.Provider

	// Logger receives derivation timings at debug level. Nil means
	// [slog.Default].
	Logger *slog.Logger
}

// DefaultBcryptOptions returns BcryptOptions with [DefaultBcryptCost] and the
// default revision.
func DefaultBcryptOptions() BcryptOptions {
	return BcryptOptions{Cost: DefaultBcryptCost, Version: bcrypt.DefaultVersion}
}

// BcryptHasher hashes passwords using the bcrypt algorithm.
//
// A fresh 16-byte salt is generated for every hash and stored inside the
// hash string, so callers never manage salts explicitly.
//
// # Thread safety
//
// BcryptHasher is immutable after construction and safe for concurrent use.
type BcryptHasher struct {
	cost int
	h    *bcrypt.Hasher
}

// NewBcryptHasher constructs a BcryptHasher with the provided options.
// Returns [ErrInvalidOption] if Cost is outside [bcrypt.MinCost, bcrypt.MaxCost]
// or Version is not a known revision.
func NewBcryptHasher(opts BcryptOptions) (*BcryptHasher, error) {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, opts.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if opts.Version == "" {
		opts.Version = bcrypt.DefaultVersion
	}
	h, err := bcrypt.New(
		bcrypt.WithVersion(opts.Version),
		bcrypt.WithProvider(opts.Provider),
		bcrypt.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return &BcryptHasher{cost: opts.Cost, h: h}, nil
}

// Driver returns [DriverBcrypt].
func (h *BcryptHasher) Driver() DriverName { return DriverBcrypt }

// Cost returns the configured bcrypt work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Engine returns the underlying [bcrypt.Hasher], for salt generation, explicit
// salts and the non-blocking API.
func (h *BcryptHasher) Engine() *bcrypt.Hasher { return h.h }

// Version returns the configured bcrypt revision.
func (h *BcryptHasher) Version() string { return h.h.Version() }

// Make hashes password with bcrypt and returns the Modular Crypt Format string
// (e.g., "$2a$12$...").
//
// Security note: bcrypt ignores password bytes beyond the 72nd.
func (h *BcryptHasher) Make(password string) (string, error) {
	hash, err := h.h.Hash(password, bcrypt.WithCost(h.cost))
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: failed to hash password: %w", err)
	}
	return hash, nil
}

// Check verifies that password matches the bcrypt-encoded hash.
// A bcrypt-prefixed hash that is otherwise malformed is a mismatch, not an
// error.
func (h *BcryptHasher) Check(password, hash string) (bool, error) {
	if !h.looksLikeBcrypt(hash) {
		return false, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	return h.h.Compare(password, hash), nil
}

// NeedsRehash returns true if the work factor or revision encoded in hash
// differs from the hasher's configuration.
func (h *BcryptHasher) NeedsRehash(hash string) (bool, error) {
	s, err := h.parse(hash)
	if err != nil {
		return false, err
	}
	return s.Cost != h.cost || s.Version != h.h.Version(), nil
}

// Info extracts the work factor and revision from a bcrypt hash string.
//
// Returned [HashInfo].Params:
//   - "cost"    → int
//   - "version" → string
func (h *BcryptHasher) Info(hash string) (HashInfo, error) {
	s, err := h.parse(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: DriverBcrypt,
		Params: map[string]any{"cost": s.Cost, "version": s.Version},
	}, nil
}

func (h *BcryptHasher) parse(hash string) (bcrypt.Salt, error) {
	if !h.looksLikeBcrypt(hash) {
		return bcrypt.Salt{}, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	if len(hash) != bcrypt.HashLen {
		return bcrypt.Salt{}, fmt.Errorf("%w: bcrypt hash must be %d characters, got %d",
			ErrInvalidHash, bcrypt.HashLen, len(hash))
	}
	s, err := bcrypt.ParseSalt(hash)
	if err != nil {
		return bcrypt.Salt{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return s, nil
}

// looksLikeBcrypt returns true if hash has a recognised bcrypt prefix.
func (h *BcryptHasher) looksLikeBcrypt(hash string) bool {
	d, ok := DetectDriver(hash)
	return ok && d == DriverBcrypt
}
