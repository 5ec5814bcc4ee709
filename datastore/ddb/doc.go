/*
Package ddb provides a DynamoDB implementation of the DataStore interface for
content records.

Every module's records share one partition in a single table. Keys come from
an index map whose macros are replaced with attribute values of the stored
item:

	indexMap := map[string]string{
	    "PK": "MODULE#{module}",  // Becomes "MODULE#articles"
	    "SK": "RECORD#{id}",      // Becomes "RECORD#article-1"
	}

A record's fields are stored as a JSON document in the "fields" attribute,
which is the JSON column the repeaters live in.

	store, err := ddb.NewRecordStore(ctx, ddb.Options{
	    Region: "eu-west-1",
	    Table:  "content",
	}, "articles")
*/
package ddb
