// Package aggregates holds the error vocabulary shared by the learning domain.
//
// Codes are transport-neutral; the HTTP layer maps them to status codes.
package aggregates
