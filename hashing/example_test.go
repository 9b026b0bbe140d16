package hashing_test

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/hashing"
)

// Example_defaultManager demonstrates the recommended out-of-the-box setup.
func Example_defaultManager() {
	// NewDefaultManager registers bcrypt at cost 12 as the default driver.
	m, err := hashing.NewDefaultManager()
	if err != nil {
		log.Fatal(err)
	}

	hash, err := m.Make("my-secret-password")
	if err != nil {
		log.Fatal(err)
	}

	ok, err := m.CheckWithDetect("my-secret-password", hash)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(ok)
	// Output: true
}

// Example_bcryptHasher demonstrates bcrypt directly.
func Example_bcryptHasher() {
	h, err := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	if err != nil {
		log.Fatal(err)
	}

	hash, _ := h.Make("hunter2")
	ok, _ := h.Check("hunter2", hash)
	fmt.Println(ok)
	// Output: true
}

// Example_customDriver shows how to register a third-party hashing driver
// without modifying the core package.
func Example_customDriver() {
	m, _ := hashing.NewBcryptManager(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	_ = m.RegisterDriver(driverPlain, plainHasher{})

	_ = m.SetDefaultDriver(driverPlain)
	hash, _ := m.Make("pw")

	fmt.Println(m.DefaultDriver(), hash)
	// Output: plain $plain$pw
}

// Example_verifyAndRehash illustrates the parameter-upgrade pattern:
// detect when a stored hash uses a weaker cost or an older revision, then
// re-hash on next successful login.
func Example_verifyAndRehash() {
	// Simulate a legacy hash still in the database.
	legacy, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	legacyHash, _ := legacy.Make("user-password")

	m, _ := hashing.NewBcryptManager(hashing.BcryptOptions{Cost: bcrypt.MinCost + 1, Version: "2b"})

	// On login: verify the password and learn whether to upgrade the hash.
	v, err := m.Verify("user-password", legacyHash)
	if err != nil || !v.Match {
		log.Fatal("login failed")
	}
	if v.Rehash {
		newHash, _ := m.Make("user-password")
		_ = newHash // persist newHash to database here
		fmt.Println("password re-hashed with", newHash[:7])
	}
	// Output: password re-hashed with $2b$05$
}

// Example_hashInfo shows how to inspect the parameters embedded in a hash.
func Example_hashInfo() {
	h, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: 6, Version: "2y"})
	hash, _ := h.Make("inspect-me")

	info, err := h.Info(hash)
	if err != nil {
		log.Fatal(err)
	}

	out, _ := json.Marshal(map[string]any{
		"driver":  info.Driver,
		"cost":    info.Params["cost"],
		"version": info.Params["version"],
	})
	fmt.Println(string(out))
	// Output: {"cost":6,"driver":"bcrypt","version":"2y"}
}

// Example_detectDriver demonstrates auto-detecting which algorithm produced a hash.
func Example_detectDriver() {
	h, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	hash, _ := h.Make("pw")

	driver, ok := hashing.DetectDriver(hash)
	fmt.Println(driver, ok)
	// Output: bcrypt true
}

// ExampleHasher_interface shows using the Hasher interface for dependency
// injection. Callers accept a hashing.Hasher and remain independent of which
// algorithm is in use.
func ExampleHasher_interface() {
	storePassword := func(h hashing.Hasher, password string) string {
		hash, _ := h.Make(password)
		return hash
	}
	verifyPassword := func(h hashing.Hasher, password, hash string) bool {
		ok, _ := h.Check(password, hash)
		return ok
	}

	bcH, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	hash := storePassword(bcH, "demo")
	fmt.Println(verifyPassword(bcH, "demo", hash))

	// Same calling code, custom driver.
	hash = storePassword(plainHasher{}, "demo")
	fmt.Println(verifyPassword(plainHasher{}, "demo", hash))

	// Output:
	// true
	// true
}
