// Package bcrypt implements the bcrypt adaptive password hash.
//
// # Hash format
//
// A hash is exactly 60 ASCII characters:
//
//	$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
//	\__/\_/\____________________/\_____________________________/
//	 |   |          salt                     digest
//	 |   cost (2 digits, 4..31)
//	 revision (2a, 2b or 2y)
//
// Salt and digest use bcrypt's own base64 alphabet
// ("./A-Za-z0-9", no padding), which is not RFC 4648. [EncodeBase64] and
// [DecodeBase64] expose it.
//
// # Key schedule
//
// The engine is EksBlowfish: the cipher is keyed with the password bytes plus
// a NUL terminator (at most 72 bytes are used), then re-keyed 2^cost times,
// alternating password and salt. The digest is "OrpheanBeholderScryDoubt"
// encrypted 64 times, truncated to 23 bytes. Output is bit-compatible with
// OpenBSD, jBCrypt and golang.org/x/crypto/bcrypt.
//
// # Blocking and non-blocking use
//
//	h, _ := bcrypt.New()
//	hash, _ := h.Hash("secret", bcrypt.WithCost(12))
//	ok := h.Compare("secret", hash)
//
//	task, _ := h.HashAsync("secret", bcrypt.WithCost(12), func(f float64) {
//	    log.Printf("%.0f%%", f*100)
//	})
//	hash, err := task.Wait(ctx)
//
// The non-blocking forms run the key schedule on their own goroutine in
// chunks of rounds, yielding between chunks. There is no mid-derivation
// cancellation: cancelling the context passed to [Task.Wait] abandons the
// result, not the work.
//
// # Randomness
//
// Salts are drawn from a [random.Provider]; see package random for the tier
// order. Only salt generation consumes randomness. [HashWithSalt], [Compare],
// [GetCost] and [GetSalt] are pure.
package bcrypt
