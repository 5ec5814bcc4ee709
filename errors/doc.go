/*
Package errors provides semantic error types for the jsonrepeater library.

The mapper itself never fails on stale data: orphaned repeaters and missing
media associations degrade silently. Errors surface only at the edges, when a
configuration is loaded, a definition is registered or a record is persisted.

Common Errors:

	var (
	    ErrNotFound           = errors.New("not found")
	    ErrAlreadyExists      = errors.New("already exists")
	    ErrInvalidInput       = errors.New("invalid input")
	    ErrInvalidDeclaration = errors.New("invalid json repeater declaration")
	)

Usage:

	decl, err := declaration.FromList("gallery", "gallery")
	if errors.IsDeclarationError(err) {
	    // duplicate repeater name
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
