/*
Package datastore defines the persistence boundary used by the repository
package.

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, key string) (*T, error)
	    Put(ctx context.Context, entity T) error
	    List(ctx context.Context) ([]T, error)
	    Delete(ctx context.Context, key string) error
	}

Implementations:
  - ddb: DynamoDB implementation storing one module's records per partition
  - mock: In-memory mock implementation for testing
*/
package datastore
