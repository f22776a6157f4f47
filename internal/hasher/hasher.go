// Package hasher wraps one-way password hashing behind a narrow
// hash/verify capability, so the services never assume a particular
// algorithm beyond "salted, one-way".
package hasher

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes and verifies passwords with the bcrypt algorithm.
type Bcrypt struct {
	cost int
}

// New returns a Bcrypt hasher with the given cost factor. Costs below the
// bcrypt default are raised to it, keeping the work factor at or above 10.
func New(cost int) *Bcrypt {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns the salted one-way hash of password.
func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. A non-nil error
// means the credentials do not match (or the hash is unreadable); callers
// must not distinguish the two.
func (b *Bcrypt) Verify(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
