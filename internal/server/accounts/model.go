// Package accounts defines the stored credential-bearing identity record and
// the narrow storage contract the gateway uses to read and write it.
package accounts

import "time"

// Account is a stored identity record. PasswordHash never crosses the
// service boundary: handlers only ever see a Summary.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Summary is the public projection of an Account returned to clients.
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Public returns the client-visible projection of the account.
func (a *Account) Public() Summary {
	return Summary{ID: a.ID, Username: a.Username, Role: a.Role}
}
