// Package models contains the GORM table models. They are kept apart from the domain
// entities and converted with ToDomain/FromDomain.
package models
