// Package user defines the user model used throughout the application,
// particularly for authentication and item ownership.
package user

// User represents a registered account.
// The password is stored only as a one-way hash and is never serialized
// into API responses.
type User struct {
	// ID is the unique identifier of the user. Its format is store-defined
	// (UUID for the SQL and in-memory backends, ObjectID hex for MongoDB).
	ID string `json:"id"`

	// Email is the login identifier. Uniqueness is enforced by the storage
	// backend at write time, case-sensitively, exactly as submitted.
	Email string `json:"email"`

	// PasswordHash is the salted bcrypt hash of the user's password.
	PasswordHash string `json:"-"`
}
