// Package models contains the request/response shapes of the HTTP JSON API
// and the storage backend selector constants.
package models

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the bearer token issued by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is the confirmation shape used by register and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform failure shape of every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateItemRequest is the body of POST /api/items. Price is a pointer so
// that an explicit zero price passes the presence check while a missing
// price fails it.
type CreateItemRequest struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required"`
}

// ItemPatch is the body of PUT /api/items/{id}. Absent fields keep their
// stored values; an owner field in the payload is ignored entirely.
type ItemPatch struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// Storage backend selectors, in the order they are probed by the app.
const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeMongo
	StorageTypeFile
	StorageTypeMemory
)
