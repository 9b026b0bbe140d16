package hashing

import (
	"fmt"
	"sync"
)

// Manager dispatches hashing operations to named [Hasher] drivers.
//
// New hashes are always produced by the default driver. Stored hashes are
// routed to whichever registered driver [DetectDriver] says produced them,
// so hashes from an older configuration keep verifying after the default
// changes.
//
// All Manager methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
	def     DriverName
}

// Verdict is the outcome of [Manager.Verify].
type Verdict struct {
	// Match reports whether the password matched the stored hash.
	Match bool

	// Driver is the driver that produced the stored hash.
	Driver DriverName

	// Rehash is true when the password matched and the stored hash should be
	// replaced with a fresh [Manager.Make] result.
	Rehash bool
}

// NewManager creates an empty Manager whose default driver is def. def must
// be registered before [Manager.Make] is called.
func NewManager(def DriverName) *Manager {
	return &Manager{drivers: make(map[DriverName]Hasher), def: def}
}

// NewDefaultManager is [NewBcryptManager] with [DefaultBcryptOptions].
func NewDefaultManager() (*Manager, error) {
	return NewBcryptManager(DefaultBcryptOptions())
}

// NewBcryptManager creates a Manager whose default driver is a
// [BcryptHasher] built from opts.
func NewBcryptManager(opts BcryptOptions) (*Manager, error) {
	h, err := NewBcryptHasher(opts)
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create bcrypt hasher: %w", err)
	}
	m := NewManager(DriverBcrypt)
	if err := m.RegisterDriver(DriverBcrypt, h); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterDriver adds h under name, replacing any driver already there.
func (m *Manager) RegisterDriver(name DriverName, h Hasher) error {
	switch {
	case name == "":
		return ErrEmptyDriverName
	case h == nil:
		return ErrNilHasher
	}
	m.mu.Lock()
	m.drivers[name] = h
	m.mu.Unlock()
	return nil
}

// SetDefaultDriver makes name, which must be registered, the driver used by
// [Manager.Make].
func (m *Manager) SetDefaultDriver(name DriverName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[name]; !ok {
		return fmt.Errorf("%w: %q is not registered", ErrDriverNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultDriver returns the name of the default driver.
func (m *Manager) DefaultDriver() DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// Driver returns the driver registered under name.
func (m *Manager) Driver(name DriverName) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookupLocked(name)
}

// Make hashes password with the default driver.
func (m *Manager) Make(password string) (string, error) {
	m.mu.RLock()
	h, err := m.lookupLocked(m.def)
	m.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return h.Make(password)
}

// CheckWithDetect verifies password against hash using the driver that
// produced hash. An unrecognised format is [ErrInvalidHash]; a recognised
// format whose driver is not registered is [ErrDriverNotFound].
func (m *Manager) CheckWithDetect(password, hash string) (bool, error) {
	h, _, err := m.detect(hash)
	if err != nil {
		return false, err
	}
	return h.Check(password, hash)
}

// NeedsRehash reports whether hash was produced by another driver than the
// default one, or by the default driver with different parameters.
func (m *Manager) NeedsRehash(hash string) (bool, error) {
	h, name, err := m.detect(hash)
	if err != nil {
		return false, err
	}
	if name != m.DefaultDriver() {
		return true, nil
	}
	return h.NeedsRehash(hash)
}

// InfoWithDetect extracts the parameters of hash using the driver that
// produced it.
func (m *Manager) InfoWithDetect(hash string) (HashInfo, error) {
	h, _, err := m.detect(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(hash)
}

// Verify runs the login check: it verifies password against hash and, on a
// match, reports whether the hash should be replaced.
//
//	v, err := m.Verify(password, stored)
//	if err == nil && v.Match && v.Rehash {
//	    fresh, _ := m.Make(password)
//	    persist(userID, fresh)
//	}
func (m *Manager) Verify(password, hash string) (Verdict, error) {
	h, name, err := m.detect(hash)
	if err != nil {
		return Verdict{}, err
	}
	ok, err := h.Check(password, hash)
	if err != nil || !ok {
		return Verdict{Driver: name}, err
	}
	rehash, err := m.NeedsRehash(hash)
	if err != nil {
		return Verdict{Match: true, Driver: name}, err
	}
	return Verdict{Match: true, Driver: name, Rehash: rehash}, nil
}

func (m *Manager) detect(hash string) (Hasher, DriverName, error) {
	name, ok := DetectDriver(hash)
	if !ok {
		return nil, "", ErrInvalidHash
	}
	h, err := m.Driver(name)
	if err != nil {
		return nil, "", err
	}
	return h, name, nil
}

func (m *Manager) lookupLocked(name DriverName) (Hasher, error) {
	h, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return h, nil
}
