package bcrypt

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/hasbyte1/go-bcrypt/random"
)

// DefaultChunkRounds is the number of key-schedule rounds a non-blocking
// derivation runs before yielding and reporting progress.
const DefaultChunkRounds = 64

type costOrSaltKind uint8

const (
	kindDefault costOrSaltKind = iota
	kindCost
	kindSalt
)

// CostOrSalt selects how Hash obtains its salt: generate one at a cost, or
// use an existing salt string. The zero value generates a salt at
// DefaultCost.
type CostOrSalt struct {
	kind costOrSaltKind
	cost int
	salt string
}

// WithCost generates a fresh salt at cost (clamped to [MinCost, MaxCost]).
func WithCost(cost int) CostOrSalt { return CostOrSalt{kind: kindCost, cost: cost} }

// WithSalt uses salt, a 29-character salt or a complete 60-character hash.
func WithSalt(salt string) CostOrSalt { return CostOrSalt{kind: kindSalt, salt: salt} }

// Hasher generates salts and hashes. It owns no mutable state of its own;
// randomness comes from its random.Provider. A Hasher is safe for concurrent
// use.
type Hasher struct {
	provider    *random.Provider
	logger      *slog.Logger
	chunkRounds uint64
	version     string
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithProvider sets the randomness provider. The default is random.Default().
func WithProvider(p *random.Provider) Option {
	return func(h *Hasher) {
		if p != nil {
			h.provider = p
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Hasher) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithChunkRounds sets how many rounds a non-blocking derivation runs per
// turn.
func WithChunkRounds(n uint64) Option {
	return func(h *Hasher) { h.chunkRounds = n }
}

// WithVersion sets the revision ("2a", "2b" or "2y") of generated salts.
func WithVersion(v string) Option {
	return func(h *Hasher) { h.version = v }
}

// New returns a Hasher. It fails with ErrIllegalArgument for an unknown
// version or a zero chunk size.
func New(opts ...Option) (*Hasher, error) {
	h := &Hasher{
		logger:      slog.Default(),
		chunkRounds: DefaultChunkRounds,
		version:     DefaultVersion,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.provider == nil {
		h.provider = random.Default()
	}
	if !knownVersions[h.version] {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrIllegalArgument, h.version)
	}
	if h.chunkRounds == 0 {
		return nil, fmt.Errorf("%w: chunk rounds must be positive", ErrIllegalArgument)
	}
	return h, nil
}

// Version returns the revision written into generated salts.
func (h *Hasher) Version() string { return h.version }

// GenerateSalt draws SaltLen bytes from the provider and renders a salt at
// cost, clamped to [MinCost, MaxCost].
func (h *Hasher) GenerateSalt(cost int) (string, error) {
	b, err := h.provider.Read(SaltLen)
	if err != nil {
		return "", fmt.Errorf("bcrypt: generate salt: %w", err)
	}
	s, err := NewSalt(cost, b)
	if err != nil {
		return "", err
	}
	s.Version = h.version
	return s.String(), nil
}

// GenerateSaltAsync is the non-blocking form of GenerateSalt.
func (h *Hasher) GenerateSaltAsync(cost int) *Task[string] {
	return startTask(func() (string, error) {
		return h.GenerateSalt(cost)
	})
}

// Hash derives the 60-character hash of password. Salt parse errors and
// randomness errors fail the whole operation.
func (h *Hasher) Hash(password string, cs CostOrSalt) (string, error) {
	salt, err := h.resolveSalt(cs)
	if err != nil {
		return "", err
	}
	d, s, err := prepare(password, salt)
	if err != nil {
		return "", err
	}
	return h.derive(d, s, nil, false), nil
}

// HashAsync is the non-blocking form of Hash. A malformed salt is reported
// immediately; salt generation and derivation happen on the task. progress
// may be nil.
func (h *Hasher) HashAsync(password string, cs CostOrSalt, progress ProgressFunc) (*Task[string], error) {
	if cs.kind == kindSalt {
		if _, err := ParseSalt(cs.salt); err != nil {
			return nil, err
		}
	}
	return startTask(func() (string, error) {
		salt, err := h.resolveSalt(cs)
		if err != nil {
			return "", err
		}
		d, s, err := prepare(password, salt)
		if err != nil {
			return "", err
		}
		return h.derive(d, s, progress, true), nil
	}), nil
}

// Compare reports whether password matches hash. Malformed hashes never
// match.
func (h *Hasher) Compare(password, hash string) bool {
	d, s, ok := prepareCompare(password, hash)
	if !ok {
		return false
	}
	return SafeCompare(h.derive(d, s, nil, false), hash)
}

// CompareAsync is the non-blocking form of Compare. The task never fails.
func (h *Hasher) CompareAsync(password, hash string, progress ProgressFunc) *Task[bool] {
	d, s, ok := prepareCompare(password, hash)
	if !ok {
		return completedTask(false, nil)
	}
	return startTask(func() (bool, error) {
		return SafeCompare(h.derive(d, s, progress, true), hash), nil
	})
}

func (h *Hasher) resolveSalt(cs CostOrSalt) (string, error) {
	switch cs.kind {
	case kindDefault:
		return h.GenerateSalt(DefaultCost)
	case kindCost:
		return h.GenerateSalt(cs.cost)
	case kindSalt:
		return cs.salt, nil
	default:
		return "", fmt.Errorf("%w: unknown cost-or-salt kind %d", ErrIllegalArgument, cs.kind)
	}
}

// derive runs d to completion and returns the full hash. In async mode it
// yields between chunks and reports progress after each one; the last report
// is exactly 1.
func (h *Hasher) derive(d *derivation, s Salt, progress ProgressFunc, async bool) string {
	start := time.Now()
	if async {
		for !d.step(h.chunkRounds) {
			if progress != nil {
				progress(d.progress())
			}
			runtime.Gosched()
		}
		if progress != nil {
			progress(1)
		}
	} else {
		d.step(d.rounds)
	}
	out := s.String() + d.digest()
	h.logger.Debug("bcrypt: derivation finished",
		"cost", s.Cost,
		"async", async,
		"elapsed", time.Since(start))
	return out
}

func prepareCompare(password, hash string) (*derivation, Salt, bool) {
	if len(hash) != HashLen {
		return nil, Salt{}, false
	}
	d, s, err := prepare(password, hash[:SaltStringLen])
	if err != nil {
		return nil, Salt{}, false
	}
	return d, s, true
}
