package ftptest

import (
	"fmt"
	"path"

	"golang.org/x/crypto/bcrypt"
)

// UserAccount is a login known to the server.
type UserAccount struct {
	Username     string
	PasswordHash string
	HomeDir      string
}

func newUserAccount(name, password, homeDir string) (*UserAccount, error) {
	if name == "" {
		return nil, fmt.Errorf("username is required")
	}
	// MinCost keeps logins fast in tests.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if homeDir == "" {
		homeDir = "/"
	}
	return &UserAccount{
		Username:     name,
		PasswordHash: string(hash),
		HomeDir:      path.Clean("/" + homeDir),
	}, nil
}

// Authenticate compares password against the stored hash.
func (u *UserAccount) Authenticate(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
