// Package users defines user accounts, one-time tokens and the admin management contracts.
package users
