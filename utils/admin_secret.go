package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminSecret is the single operator password. It may be configured either in
// clear or as a bcrypt hash; the admin cookie always carries the clear value.
type AdminSecret struct {
	plain string
	hash  []byte
}

func NewAdminSecret(configured string) *AdminSecret {
	if isBcryptHash(configured) {
		return &AdminSecret{hash: []byte(configured)}
	}
	return &AdminSecret{plain: configured}
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// Matches reports whether candidate is the admin password. An unset secret
// matches nothing.
func (s *AdminSecret) Matches(candidate string) bool {
	if candidate == "" {
		return false
	}
	if s.hash != nil {
		return bcrypt.CompareHashAndPassword(s.hash, []byte(candidate)) == nil
	}
	if s.plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.plain), []byte(candidate)) == 1
}
