package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single admin account loaded from config.  The password
// is only ever held as a bcrypt hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Verify reports whether user and password match.  The bcrypt comparison
// runs even for a wrong username so timing does not reveal which part
// failed.
func (c Credentials) Verify(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
	return userOK && passErr == nil && c.Username != ""
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
