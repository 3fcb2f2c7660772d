package config

import "fmt"

type ErrorKind string

const (
	KindMissingCredential ErrorKind = "missing-credential"
	KindInvalid           ErrorKind = "invalid"
)

// ConfigError is a startup configuration failure. It is always fatal.
type ConfigError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Kind, e.Field)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func missing(field string) error {
	return &ConfigError{Kind: KindMissingCredential, Field: field}
}

func invalid(field string, err error) error {
	return &ConfigError{Kind: KindInvalid, Field: field, Err: err}
}
