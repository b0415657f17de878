package model

import "time"

// Role values stored in users.role and carried in the JWT "role" claim.
// CLIENTE owns vehicles and requests, ASISTENTE runs the front desk and the
// slot calendar, TALLER is a workshop technician, ADMIN is unrestricted.
const (
	RoleCliente   = "CLIENTE"
	RoleAsistente = "ASISTENTE"
	RoleTaller    = "TALLER"
	RoleAdmin     = "ADMIN"
)

// User represents a row in the `users` table. The json tags are omitted
// because these structs are used by the repository layer; handlers define
// their own response types.
//
// Fields:
//  ID           – primary key identifier.
//  Cve          – short human-assigned key, unique when present.
//  Name         – display name.
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password.
//  Phone        – contact phone, optional.
//  Role         – one of the Role* constants above.
//  IsActive     – whether the account may authenticate.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Cve          *string   // users.cve (nullable)
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Phone        *string   // users.phone (nullable)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
