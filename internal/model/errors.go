package model

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrNoSource     = errors.New("account has no transaction source")
)

// TypeMismatchError reports an entity field that should hold a money value
// but does not.
type TypeMismatchError struct {
	Entity string
	Field  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s.%s is not a money value: %v", e.Entity, e.Field, ErrTypeMismatch)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}
