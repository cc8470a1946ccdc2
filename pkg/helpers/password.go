package helpers

import "golang.org/x/crypto/bcrypt"

// dummyHash is a bcrypt hash of an unguessable throwaway value. Login
// compares against it when the email does not exist, so the unknown-email
// and wrong-password paths burn a comparable amount of work.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword hashes the plain text password using bcrypt with the given
// cost. Any cost below bcrypt.MinCost falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// Corrupt hashes and mismatches both report false.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyCompare performs a bcrypt comparison whose result is discarded,
// taking roughly the same time as a real verification.
func DummyCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
