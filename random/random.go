// Package random provides the tiered random-byte provider used for salt
// generation.
//
// A [Provider] resolves, once, which of four sources it will draw from:
//
//  1. [TierSecure]: a cryptographically secure source, crypto/rand by default.
//  2. [TierFallback]: a source registered with [Provider.SetFallback], only
//     consulted when no secure source is present.
//  3. [TierDeterministic]: an ISAAC generator seeded once from an
//     [EntropySource] (or explicitly with [Provider.Reseed]).
//  4. [TierInsecure]: a math/rand float-derived byte sampler. It is weak and is
//     logged at WARN level when selected.
//
// A single [Provider.Read] always draws from exactly one source. If the
// resolved source fails, the error is returned; the provider never falls
// through to a weaker tier mid-call.
package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"sync"

	"github.com/hasbyte1/go-bcrypt/isaac"
)

var (
	// ErrNoRandomSource is returned when every tier, including the insecure
	// sampler, is unavailable.
	ErrNoRandomSource = errors.New("random: no random source available")

	// ErrIllegalArgument is returned for a negative length or a nil source.
	ErrIllegalArgument = errors.New("random: illegal argument")

	// ErrShortRead is returned when a source yields fewer bytes than requested.
	ErrShortRead = errors.New("random: short read")
)

// Source returns n random bytes or an error.
type Source func(n int) ([]byte, error)

// EntropySource is an ambient entropy accumulator (timing jitter, input
// events, ...). It seeds the deterministic tier exactly once: Stop is called,
// then Fetch.
type EntropySource interface {
	Stop()
	Fetch() ([]byte, error)
}

// Tier identifies which source a Provider resolved to.
type Tier int

const (
	TierNone Tier = iota
	TierSecure
	TierFallback
	TierDeterministic
	TierInsecure
)

func (t Tier) String() string {
	switch t {
	case TierSecure:
		return "secure"
	case TierFallback:
		return "fallback"
	case TierDeterministic:
		return "deterministic"
	case TierInsecure:
		return "insecure"
	default:
		return "none"
	}
}

// Provider is the randomness context shared by every salt-generating call.
// It is safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	secure   Source
	fallback Source
	entropy  EntropySource
	insecure Source
	logger   *slog.Logger

	prng     *isaac.Generator
	resolved bool
	tier     Tier
}

// Option configures a Provider.
type Option func(*Provider)

// WithSecureSource replaces crypto/rand as the secure tier. Passing nil
// declares that no secure source exists on this host.
func WithSecureSource(src Source) Option {
	return func(p *Provider) { p.secure = src }
}

// WithEntropy installs the accumulator that seeds the deterministic tier.
func WithEntropy(e EntropySource) Option {
	return func(p *Provider) { p.entropy = e }
}

// WithInsecureSource replaces the last-resort sampler. Passing nil removes the
// last tier, so a provider with nothing else installed fails with
// ErrNoRandomSource.
func WithInsecureSource(src Source) Option {
	return func(p *Provider) { p.insecure = src }
}

// WithLogger sets the logger used to report tier resolution.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Provider with crypto/rand as its secure tier and the
// float-derived sampler as its last resort.
func New(opts ...Option) *Provider {
	p := &Provider{
		secure:   CryptoSource,
		insecure: InsecureSource,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	defaultOnce     sync.Once
	defaultProvider *Provider
)

// Default returns the process-wide Provider, created on first use.
func Default() *Provider {
	defaultOnce.Do(func() {
		defaultProvider = New()
	})
	return defaultProvider
}

// CryptoSource reads n bytes from crypto/rand.
func CryptoSource(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// InsecureSource samples each byte from a uniform float in [0, 1). It is not
// suitable for secrets and exists only as the last tier.
func InsecureSource(n int) ([]byte, error) {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(mrand.Float64() * 256)
	}
	return b, nil
}

// Read returns n bytes drawn from the resolved source.
func (p *Provider) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrIllegalArgument, n)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tier, err := p.resolveLocked()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}

	var b []byte
	switch tier {
	case TierSecure:
		b, err = p.secure(n)
	case TierFallback:
		b, err = p.fallback(n)
	case TierDeterministic:
		b = make([]byte, n)
		_, err = p.prng.Read(b)
	case TierInsecure:
		b, err = p.insecure(n)
	}
	if err != nil {
		return nil, fmt.Errorf("random: %s source: %w", tier, err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("random: %s source: %w: got %d of %d bytes", tier, ErrShortRead, len(b), n)
	}
	return b, nil
}

// SetFallback registers a user source. It is used only when no secure source
// is present, and in that case replaces the deterministic and insecure tiers
// from the next Read on.
func (p *Provider) SetFallback(src Source) error {
	if src == nil {
		return fmt.Errorf("%w: nil fallback source", ErrIllegalArgument)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = src
	if p.resolved && p.tier != TierSecure {
		p.resolved = false
	}
	return nil
}

// Reseed seeds the deterministic generator with seed, replacing any state it
// had. Tests use it to make the deterministic tier reproducible.
func (p *Provider) Reseed(seed []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.prng == nil {
		p.prng = &isaac.Generator{}
	}
	p.prng.SeedBytes(seed)
	if p.resolved && p.tier > TierDeterministic {
		p.resolved = false
	}
}

// Tier reports the source the provider draws from, resolving it if needed.
// It returns TierNone when no source is available.
func (p *Provider) Tier() Tier {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.resolveLocked()
	if err != nil {
		return TierNone
	}
	return t
}

func (p *Provider) resolveLocked() (Tier, error) {
	if p.resolved {
		return p.tier, nil
	}

	var tier Tier
	switch {
	case p.secure != nil && sourceWorks(p.secure):
		tier = TierSecure
	case p.fallback != nil:
		tier = TierFallback
	case p.prng != nil || p.seedFromEntropyLocked():
		tier = TierDeterministic
	case p.insecure != nil:
		tier = TierInsecure
	default:
		return TierNone, ErrNoRandomSource
	}

	p.tier = tier
	p.resolved = true
	if tier == TierInsecure {
		p.logger.Warn("random: using insecure last-resort source; install a secure source or a fallback",
			"tier", tier.String())
	} else {
		p.logger.Debug("random: source resolved", "tier", tier.String())
	}
	return tier, nil
}

// seedFromEntropyLocked consumes the accumulator. It is one-shot: whatever the
// outcome, the accumulator is dropped afterwards.
func (p *Provider) seedFromEntropyLocked() bool {
	if p.entropy == nil {
		return false
	}
	e := p.entropy
	p.entropy = nil

	e.Stop()
	seed, err := e.Fetch()
	if err != nil {
		p.logger.Warn("random: entropy accumulator unavailable", "error", err)
		return false
	}
	p.prng = &isaac.Generator{}
	p.prng.SeedBytes(seed)
	return true
}

func sourceWorks(src Source) bool {
	b, err := src(1)
	return err == nil && len(b) == 1
}
