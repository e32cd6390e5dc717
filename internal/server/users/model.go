package users

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a row of the server's users table. The password itself is never
// stored: Verifier is cryptox.MakeVerifier(cryptox.DeriveKey(password, Salt)).
type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	Role      string
	IsActive  bool
	CreatedAt time.Time
}
