// Package security provides password hashing, access token signing and
// one-time token generation for the auth service.
package security
