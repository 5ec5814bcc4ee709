/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
)

// DataStore persists entities of type T. GetOne and Delete return an error
// matching errors.ErrNotFound when the key is unknown.
type DataStore[T any] interface {
	GetOne(ctx context.Context, key string) (*T, error)

	Put(ctx context.Context, entity T) error

	List(ctx context.Context) ([]T, error)

	Delete(ctx context.Context, key string) error
}
