/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package repository persists content records whose repeaters live in a JSON
column.

A Repository runs the repeater handler of its module at the three points a
content repository touches submitted payloads:

	repo, _ := repository.New(store, "articles", handler)

	// submit of a new record: repeaters are copied to top-level fields
	rec, err := repo.Create(ctx, "article-1", fields)

	// submit of an existing record: medias are lifted for the media subsystem
	rec, medias, err := repo.Update(ctx, "article-1", fields)

	// edit form: stored arrays are flattened into blocks[...] fields
	form, err := repo.FormFields(ctx, "article-1", medias)

The keys repeaters, medias and browsers belong to other subsystems and are
never written to the datastore.
*/
package repository
