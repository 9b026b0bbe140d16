// Package hashing provides a driver-based password hashing front end over
// package bcrypt.
//
// # Architecture
//
// The central abstraction is the [Hasher] interface. [BcryptHasher] is the
// built-in driver; applications may register their own implementations
// under other names.
//
// The [Manager] is a named driver registry and dispatcher. Register one or
// more [Hasher] implementations, designate a default driver, then delegate
// all hashing operations through the [Manager].
//
// # Quick start
//
//	m, err := hashing.NewDefaultManager() // bcrypt default, cost 12
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := m.Make("my-secret-password")
//	ok, _   := m.CheckWithDetect("my-secret-password", hash) // true
//
// # Security defaults
//
//   - bcrypt: cost 12, revision 2a, salts from [random.Default].
//
// # Parameter migration
//
// Call [Manager.Verify] on every successful login. Its Rehash field is true
// when the stored hash was produced by a different driver, a different cost
// or a different bcrypt revision than the current default. Re-hash and
// persist immediately:
//
//	v, err := m.Verify(password, storedHash)
//	if err == nil && v.Match && v.Rehash {
//	    newHash, _ := m.Make(password)
//	    persist(userID, newHash)
//	}
package hashing
