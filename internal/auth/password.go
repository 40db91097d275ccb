package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("incorrect password")

// PasswordChecker verifies the admin password against either a bcrypt hash
// or the configured plain secret. The hash wins when both are set.
type PasswordChecker struct {
	plain []byte
	hash  []byte
}

func NewPasswordChecker(plain, hash string) *PasswordChecker {
	c := &PasswordChecker{}
	if hash != "" {
		c.hash = []byte(hash)
	} else if plain != "" {
		c.plain = []byte(plain)
	}
	return c
}

// Check returns ErrInvalidPassword unless password matches
func (c *PasswordChecker) Check(password string) error {
	if password == "" {
		return ErrInvalidPassword
	}
	if c.hash != nil {
		if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}
	if c.plain == nil || subtle.ConstantTimeCompare(c.plain, []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}
