package entity

import (
	"time"
)

// Account is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password field.
type Account struct {
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
}

// AccountProfile is the public projection of an account. The password
// hash never leaves the service layer.
type AccountProfile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile returns the public projection of the account.
func (a *Account) Profile() AccountProfile {
	return AccountProfile{Username: a.Username, Email: a.Email}
}
