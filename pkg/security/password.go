// Package security contains everything related to the security of user data
package security

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt hash of p. bcrypt.DefaultCost
// is 10 which is what every client of this function expects
func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// VerifyPassword compares a plaintext password p with the stored hash e
func VerifyPassword(p, e string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e), []byte(p)) == nil
}
