/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapper_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/jsonrepeater/declaration"
	"github.com/suparena/jsonrepeater/mapper"
	"github.com/suparena/jsonrepeater/mediakey"
	"github.com/suparena/jsonrepeater/registry"
)

func newMapper(t *testing.T, defs ...registry.Definition) *mapper.Mapper {
	t.Helper()
	return mapper.New(registry.NewResolver(registry.New(defs...)))
}

var galleryDef = registry.Definition{
	Name:       "gallery",
	Component:  "Gallery",
	Title:      "Gallery",
	TitleField: "caption",
}

func galleryItems() []any {
	return []any{
		map[string]any{"caption": "A"},
		map[string]any{
			"id":      "pinned",
			"caption": "B",
			"medias":  map[string]any{"cover": []any{map[string]any{"id": 7}}},
		},
	}
}

func TestLiftForCreateCopiesDeclaredRepeaters(t *testing.T) {
	m := newMapper(t)
	items := galleryItems()
	faq := []any{map[string]any{"question": "Why?"}}
	in := mapper.Fields{
		"title": "Post",
		"repeaters": map[string]any{
			"gallery":    items,
			"faq":        faq,
			"undeclared": []any{},
			"empty":      nil,
		},
	}

	out := m.LiftForCreate(in, declaration.MustList("gallery", "faq", "empty", "missing"))

	assert.Equal(t, items, out["gallery"])
	assert.Equal(t, faq, out["faq"])
	assert.NotContains(t, out, "undeclared")
	assert.NotContains(t, out, "empty", "nil repeaters are not copied")
	assert.NotContains(t, out, "missing")
	assert.NotContains(t, out, "medias", "create never lifts medias")
	assert.Equal(t, "Post", out["title"])

	assert.NotContains(t, in, "gallery", "input must not be modified")
}

func TestLiftForCreateWithoutRepeaters(t *testing.T) {
	m := newMapper(t)
	in := mapper.Fields{"title": "Post"}
	out := m.LiftForCreate(in, declaration.MustList("gallery"))
	assert.Equal(t, in, out)

	assert.Nil(t, m.LiftForCreate(nil, declaration.MustList("gallery")))
}

func TestLiftForSaveLiftsMediasPerRoleAndIndex(t *testing.T) {
	m := newMapper(t)
	cover0 := []any{map[string]any{"id": 1}}
	cover1 := []any{map[string]any{"id": 2}}
	thumb1 := []any{map[string]any{"id": 3}}
	existing := []any{map[string]any{"id": 99}}

	in := mapper.Fields{
		"medias": map[string]any{"hero": existing},
		"repeaters": map[string]any{
			"gallery": []any{
				map[string]any{"medias": map[string]any{"cover": cover0}},
				map[string]any{"medias": map[string]any{"cover": cover1, "thumb": thumb1}},
				map[string]any{"medias": map[string]any{}},
				map[string]any{"caption": "no medias"},
			},
		},
	}

	out := m.LiftForSave(in, declaration.MustList("gallery"))

	medias, ok := out.Map("medias")
	require.True(t, ok)
	want := map[string]any{
		"hero":                             existing,
		mediakey.Encode("cover", "gallery", 0): cover0,
		mediakey.Encode("cover", "gallery", 1): cover1,
		mediakey.Encode("thumb", "gallery", 1): thumb1,
	}
	if diff := cmp.Diff(want, medias); diff != "" {
		t.Errorf("lifted medias mismatch (-want +got):\n%s", diff)
	}

	assert.NotNil(t, out["gallery"])
	inMedias, _ := in.Map("medias")
	assert.Len(t, inMedias, 1, "input medias must not be modified")
}

func TestLiftForSaveSameRoleAcrossRepeatersDoesNotCollide(t *testing.T) {
	m := newMapper(t)
	a := []any{"a"}
	b := []any{"b"}
	in := mapper.Fields{
		"repeaters": map[string]any{
			"gallery": []any{map[string]any{"medias": map[string]any{"cover": a}}},
			"slides":  []any{map[string]any{"medias": map[string]any{"cover": b}}},
		},
	}

	out := m.LiftForSave(in, declaration.MustList("gallery", "slides"))

	medias, _ := out.Map("medias")
	assert.Len(t, medias, 2)
	assert.Equal(t, a, medias[mediakey.Encode("cover", "gallery", 0)])
	assert.Equal(t, b, medias[mediakey.Encode("cover", "slides", 0)])
}

func TestLiftForSaveWithoutMediasLeavesMediasKeyAlone(t *testing.T) {
	m := newMapper(t)
	in := mapper.Fields{
		"repeaters": map[string]any{
			"gallery": []any{map[string]any{"caption": "A"}},
		},
	}
	out := m.LiftForSave(in, declaration.MustList("gallery"))
	assert.NotContains(t, out, "medias")
}

func TestGetJsonRepeaterExample(t *testing.T) {
	m := newMapper(t, galleryDef)
	cover := []any{map[string]any{"id": 7, "crop": "default"}}
	in := mapper.Fields{
		"medias": map[string]any{
			mediakey.Encode("cover", "gallery", 1): cover,
		},
	}

	out := m.GetJsonRepeater(in, "gallery", "", galleryItems())

	repeaters, _ := out.Map("repeaters")
	wantMeta := []mapper.Metadata{
		{ID: 0, Type: "Gallery", Title: "Gallery", TitleField: "caption"},
		{ID: "pinned", Type: "Gallery", Title: "Gallery", TitleField: "caption"},
	}
	if diff := cmp.Diff(wantMeta, repeaters["gallery"]); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}

	fields, _ := out.Map("repeaterFields")
	wantFields := []mapper.Field{
		{Name: "blocks[0][caption]", Value: "A"},
		{Name: "blocks[pinned][caption]", Value: "B"},
	}
	if diff := cmp.Diff(wantFields, fields["gallery"]); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(out))
	}

	medias, _ := out.Map("repeaterMedias")
	assert.Equal(t, map[string]any{"blocks[pinned][cover]": cover}, medias["gallery"])

	browsers, _ := out.Map("repeaterBrowsers")
	assert.Equal(t, map[string]any{}, browsers["gallery"])
}

func TestFlattenMediaJoinUsesIndexNotID(t *testing.T) {
	m := newMapper(t, galleryDef)
	items := []any{
		map[string]any{"id": "x", "medias": map[string]any{"cover": []any{}}},
	}

	// keyed by the id instead of the index: no match
	byID := mapper.Fields{"medias": map[string]any{
		"json-repeater[7:gallery][x][cover]": "wrong",
	}}
	set, ok := m.Flatten(byID, "gallery", "", items)
	require.True(t, ok)
	assert.Empty(t, set.Medias)

	byIndex := mapper.Fields{"medias": map[string]any{
		mediakey.Encode("cover", "gallery", 0): "right",
	}}
	set, ok = m.Flatten(byIndex, "gallery", "", items)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"blocks[x][cover]": "right"}, set.Medias)
}

func TestFlattenMissingMediaIsOmitted(t *testing.T) {
	m := newMapper(t, galleryDef)
	items := []any{
		map[string]any{"medias": map[string]any{"cover": []any{1}, "thumb": []any{2}}},
	}
	fields := mapper.Fields{"medias": map[string]any{
		mediakey.Encode("thumb", "gallery", 0): "thumb",
		mediakey.Encode("cover", "gallery", 0): nil,
	}}

	set, ok := m.Flatten(fields, "gallery", "", items)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"blocks[0][thumb]": "thumb"}, set.Medias)
}

func TestFlattenBrowsersAndReservedKeys(t *testing.T) {
	m := newMapper(t, galleryDef)
	items := []any{
		map[string]any{
			"id":        12,
			"title":     "Hello",
			"body":      "<p>Hi</p>",
			"browsers":  map[string]any{"articles": []any{1, 2}, "author": []any{3}},
			"medias":    map[string]any{},
			"files":     map[string]any{"pdf": []any{}},
			"repeaters": map[string]any{"nested": []any{}},
			"blocks":    []any{},
		},
	}

	set, ok := m.Flatten(nil, "gallery", "", items)
	require.True(t, ok)

	assert.Equal(t, []mapper.Field{
		{Name: "blocks[12][body]", Value: "<p>Hi</p>"},
		{Name: "blocks[12][title]", Value: "Hello"},
	}, set.Fields)
	assert.Equal(t, map[string]any{
		"blocks[12][articles]": []any{1, 2},
		"blocks[12][author]":   []any{3},
	}, set.Browsers)
	assert.Equal(t, 12, set.Metadata[0].ID)
}

func TestFlattenIDFallback(t *testing.T) {
	m := newMapper(t, galleryDef)
	items := []any{
		map[string]any{"caption": "a"},
		map[string]any{"id": nil, "caption": "b"},
		"not an object",
		map[string]any{"id": float64(40), "caption": "d"},
	}

	set, ok := m.Flatten(nil, "gallery", "", items)
	require.True(t, ok)

	ids := make([]any, 0, len(set.Metadata))
	for _, meta := range set.Metadata {
		ids = append(ids, meta.ID)
	}
	assert.Equal(t, []any{0, 1, 2, float64(40)}, ids)
	assert.Equal(t, "blocks[40][caption]", set.Fields[2].Name)
}

func TestGetJsonRepeaterUnknownTypeLeavesFieldsUntouched(t *testing.T) {
	var buf bytes.Buffer
	m := mapper.New(registry.NewResolver(registry.New(galleryDef)), mapper.WithLogger(log.New(&buf, "", 0)))

	in := mapper.Fields{
		"legacy":    []any{map[string]any{"caption": "A"}},
		"repeaters": map[string]any{"other": []any{}},
	}
	out := m.GetJsonRepeater(in, "legacy", "", in["legacy"])

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("fields changed (-want +got):\n%s", diff)
	}
	assert.NotContains(t, out, "repeaterFields")
	assert.Contains(t, buf.String(), `"legacy"`)
}

func TestGetJsonRepeaterAliasResolution(t *testing.T) {
	m := newMapper(t, registry.Definition{Name: "slide", Component: "Slide"})
	decl := declaration.MustAliases(declaration.Entry{Name: "hero_slides", Alias: "slide"})
	in := mapper.Fields{"hero_slides": []any{map[string]any{"caption": "A"}}}

	out := m.GetFormFields(in, decl)

	repeaters, _ := out.Map("repeaters")
	meta, ok := repeaters["hero_slides"].([]mapper.Metadata)
	require.True(t, ok, spew.Sdump(out))
	assert.Equal(t, "Slide", meta[0].Type)
}

func TestGetJsonRepeaterEmptyArrayCreatesEmptyCollections(t *testing.T) {
	m := newMapper(t)
	out := m.GetJsonRepeater(mapper.Fields{}, "gallery", "", []any{})

	for _, key := range []string{"repeaters", "repeaterFields", "repeaterBrowsers", "repeaterMedias"} {
		nested, ok := out.Map(key)
		require.True(t, ok, key)
		require.Contains(t, nested, "gallery", key)
	}
	repeaters, _ := out.Map("repeaters")
	assert.Equal(t, []mapper.Metadata{}, repeaters["gallery"])
	fields, _ := out.Map("repeaterFields")
	assert.Equal(t, []mapper.Field{}, fields["gallery"])
	browsers, _ := out.Map("repeaterBrowsers")
	assert.Equal(t, map[string]any{}, browsers["gallery"])
	medias, _ := out.Map("repeaterMedias")
	assert.Equal(t, map[string]any{}, medias["gallery"])
}

func TestGetJsonRepeaterKeepsOtherRepeaters(t *testing.T) {
	m := newMapper(t, galleryDef)
	existing := []mapper.Metadata{{ID: 0, Type: "Faq"}}
	in := mapper.Fields{
		"repeaters": map[string]any{"faq": existing},
	}

	out := m.GetJsonRepeater(in, "gallery", "", []any{map[string]any{"caption": "A"}})

	repeaters, _ := out.Map("repeaters")
	assert.Equal(t, existing, repeaters["faq"])
	assert.Len(t, repeaters["gallery"], 1)

	inRepeaters, _ := in.Map("repeaters")
	assert.NotContains(t, inRepeaters, "gallery", "input must not be modified")
}

func TestGetJsonRepeaterDecodesJSONColumn(t *testing.T) {
	m := newMapper(t, galleryDef)
	out := m.GetJsonRepeater(nil, "gallery", "", `[{"id": 3, "caption": "A"}]`)

	fields, _ := out.Map("repeaterFields")
	assert.Equal(t, []mapper.Field{{Name: "blocks[3][caption]", Value: "A"}}, fields["gallery"])

	in := mapper.Fields{"title": "x"}
	assert.Equal(t, in, m.GetJsonRepeater(in, "gallery", "", `{"not": "an array"}`))
}

func TestGetFormFieldsSkipsEmptyAndAbsent(t *testing.T) {
	m := newMapper(t, galleryDef, registry.Definition{Name: "dynamic-repeater-faq", Component: "Faq"})
	in := mapper.Fields{
		"gallery": []any{},
		"faq":     []any{map[string]any{"question": "Why?"}},
		"notes":   "",
	}

	out := m.GetFormFields(in, declaration.MustList("gallery", "faq", "notes", "absent"))

	repeaters, _ := out.Map("repeaters")
	assert.NotContains(t, repeaters, "gallery")
	assert.NotContains(t, repeaters, "notes")
	assert.NotContains(t, repeaters, "absent")
	require.Contains(t, repeaters, "faq")
	assert.Equal(t, "Faq", repeaters["faq"].([]mapper.Metadata)[0].Type)
}

func TestRoundTripSaveThenEdit(t *testing.T) {
	m := newMapper(t, galleryDef)
	decl := declaration.MustList("gallery")
	cover := []any{map[string]any{"id": 7}}

	submitted := mapper.Fields{
		"repeaters": map[string]any{
			"gallery": []any{
				map[string]any{"id": "first", "caption": "A"},
				map[string]any{"id": "second", "caption": "B", "medias": map[string]any{"cover": cover}},
			},
		},
	}
	saved := m.LiftForSave(submitted, decl)

	// the record keeps the repeater array and the media subsystem keeps the lifted medias
	record := mapper.Fields{
		"gallery": saved["gallery"],
		"medias":  saved["medias"],
	}
	form := m.GetFormFields(record, decl)

	medias, _ := form.Map("repeaterMedias")
	assert.Equal(t, map[string]any{"blocks[second][cover]": cover}, medias["gallery"])
}
