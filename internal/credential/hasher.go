package credential

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps verification in the tens of milliseconds on commodity
// hardware, which also throttles online PIN guessing.
const DefaultCost = 12

// Hasher defines minimal PIN hashing (abstract so tests can drop the cost
// and so the algorithm can be swapped without touching callers).
type Hasher interface {
	Hash(pin string) (string, error)
	Verify(pin, hash string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pin string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether pin matches hash. Malformed hash material,
// including the empty string that marks a not-yet-provisioned identity,
// verifies false rather than erroring.
func (b BcryptHasher) Verify(pin, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
