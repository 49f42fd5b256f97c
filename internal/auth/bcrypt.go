package auth

import "golang.org/x/crypto/bcrypt"

// hashPassword produces a bcrypt hash at the package default cost.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword reports whether password matches hash. Any
// verification error (mismatch, malformed hash) is treated as a
// failed match rather than surfaced to the caller.
func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
