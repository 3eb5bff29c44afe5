// Package credential encodes and checks user passwords.
package credential

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sitepulse/progress-tracker/internal/core/ports"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemeLegacy = "legacy"
)

// New returns the encoder for scheme. Unknown schemes are an error so a typo
// in configuration never silently downgrades to the legacy encoding.
func New(scheme string) (ports.PasswordEncoder, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	case SchemeLegacy:
		return Legacy{}, nil
	default:
		return nil, fmt.Errorf("credential: unknown scheme %q", scheme)
	}
}

// Bcrypt stores salted one-way hashes.
type Bcrypt struct {
	Cost int
}

var (
	_ ports.PasswordEncoder = Bcrypt{}
	_ ports.PasswordEncoder = Legacy{}
)

func (b Bcrypt) Encode(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt encode: %w", err)
	}
	return string(hash), nil
}

func (Bcrypt) Matches(secret, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
}

// Legacy is the reversible base64 encoding used by the first version of the
// office app. It is obfuscation only and exists so old exported user lists
// keep working.
type Legacy struct{}

func (Legacy) Encode(password string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(password)), nil
}

func (l Legacy) Matches(secret, password string) bool {
	enc, _ := l.Encode(password)
	return subtle.ConstantTimeCompare([]byte(secret), []byte(enc)) == 1
}
