/*
Package storagemodels defines the data structures persisted by jsonrepeater
datastores.

Record:
One content record of a module. Fields holds the record's top-level fields
after the repeater hooks ran, so declared repeaters sit there as arrays:

	rec := Record{
	    ID:     "article-1",
	    Module: "articles",
	    Fields: map[string]any{
	        "title":   "Hello",
	        "gallery": []any{map[string]any{"caption": "A"}},
	    },
	}

Timestamps use strfmt.DateTime so they serialize as RFC 3339 in JSON.
*/
package storagemodels
