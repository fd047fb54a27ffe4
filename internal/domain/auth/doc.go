// Package auth defines registration, login and password recovery contracts.
package auth
