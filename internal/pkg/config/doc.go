// Package config loads the service configuration from a YAML file and the environment.
//
// Every settings block validates itself with go-playground/validator and may add
// cross-field rules on top; RestConfig.Validate runs all of them.
package config
