/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record or definition is not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when registering something under a name that is taken
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDeclaration is returned when a json repeater declaration cannot be interpreted
	ErrInvalidDeclaration = errors.New("invalid json repeater declaration")
)

// NotFoundError represents an error when a record or definition is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents a duplicate registration
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DeclarationError is returned at configuration-load time when a repeater name
// declaration is neither a clean list nor a clean alias map.
type DeclarationError struct {
	// Line is the 1-based line in the source document, 0 when unknown.
	Line   int
	Reason string
}

func (e *DeclarationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid json repeater declaration (line %d): %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid json repeater declaration: %s", e.Reason)
}

func (e *DeclarationError) Is(target error) bool {
	return target == ErrInvalidDeclaration
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Type: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewDeclarationError creates a new DeclarationError
func NewDeclarationError(line int, format string, args ...any) error {
	return &DeclarationError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDeclarationError checks if an error is an invalid declaration error
func IsDeclarationError(err error) bool {
	return errors.Is(err, ErrInvalidDeclaration)
}
