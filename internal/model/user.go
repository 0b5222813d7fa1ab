package model

import "time"

// Role names carried in the access token's "role" claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  IsStaff grants admin privilege.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hashed password.
//	IsStaff      – whether the user may modify the catalog.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `db:"id"`            // users.id
	Email        string    `db:"email"`         // users.email
	PasswordHash string    `db:"password_hash"` // users.password_hash
	IsStaff      bool      `db:"is_staff"`      // users.is_staff
	IsActive     bool      `db:"is_active"`     // users.is_active
	CreatedAt    time.Time `db:"created_at"`    // users.created_at
	UpdatedAt    time.Time `db:"updated_at"`    // users.updated_at
}

// Role maps the staff flag to a role name.
func (u User) Role() string {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleUser
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     `db:"id"`         // refresh_tokens.id
	UserID    uint64     `db:"user_id"`    // refresh_tokens.user_id
	TokenHash string     `db:"token_hash"` // refresh_tokens.token_hash
	ExpiresAt time.Time  `db:"expires_at"` // refresh_tokens.expires_at
	RevokedAt *time.Time `db:"revoked_at"` // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  `db:"created_at"` // refresh_tokens.created_at
}
