package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate password hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptPasswordHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// Same message regardless of cause (mismatch vs malformed hash) so
		// callers cannot distinguish the failure modes.
		return fmt.Errorf("password verification failed")
	}
	return nil
}

// NeedsRehash reports whether a stored hash was produced with a weaker cost
// than currently configured. Callers rehash opportunistically after a
// successful verification, when the plaintext is available.
func (h *BcryptPasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost < h.cost
}

// dummyHash is a valid bcrypt hash of an unguessable value. Comparing
// against it when the username does not exist keeps the login path's timing
// roughly uniform.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// DummyVerify burns a bcrypt comparison without revealing anything.
func (h *BcryptPasswordHasher) DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
