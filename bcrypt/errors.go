package bcrypt

import (
	"errors"

	"github.com/hasbyte1/go-bcrypt/random"
)

// Sentinel errors returned by this package. Use [errors.Is]:
//
//	if _, err := bcrypt.GetSalt(stored); errors.Is(err, bcrypt.ErrMalformedHash) {
//	    // stored value is not a bcrypt hash
//	}
var (
	// ErrIllegalArgument is returned when an argument has the wrong shape,
	// such as an out-of-range codec length or an empty CostOrSalt kind.
	ErrIllegalArgument = errors.New("bcrypt: illegal argument")

	// ErrNoRandomSource is returned when salt generation finds no random
	// source at all. It is the same value as [random.ErrNoRandomSource].
	ErrNoRandomSource = random.ErrNoRandomSource

	// ErrMalformedHash is returned by strict parsers when a salt or hash
	// string does not have the exact bcrypt shape.
	ErrMalformedHash = errors.New("bcrypt: malformed hash")

	// ErrInvalidCost is returned when a salt string carries a cost outside
	// [MinCost, MaxCost]. Salt generation clamps instead.
	ErrInvalidCost = errors.New("bcrypt: invalid cost")
)
