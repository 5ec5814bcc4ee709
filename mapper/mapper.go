/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapper

import (
	"io"
	"log"

	"github.com/suparena/jsonrepeater/declaration"
	"github.com/suparena/jsonrepeater/mediakey"
	"github.com/suparena/jsonrepeater/registry"
)

// TypeLookup resolves a repeater name to its definition. Both
// registry.Resolver and registry.CachedResolver implement it.
type TypeLookup interface {
	Resolve(name, aliasTarget string) (registry.Definition, bool)
}

// Metadata describes one flattened repeater item.
type Metadata struct {
	ID              any    `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	TitleField      string `json:"titleField"`
	HideTitlePrefix bool   `json:"hideTitlePrefix"`
}

// Field is one flattened scalar value.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// FlattenedSet holds the four collections produced for one repeater.
type FlattenedSet struct {
	Metadata []Metadata     `json:"metadata"`
	Fields   []Field        `json:"fields"`
	Browsers map[string]any `json:"browsers"`
	Medias   map[string]any `json:"medias"`
}

func newFlattenedSet(size int) FlattenedSet {
	return FlattenedSet{
		Metadata: make([]Metadata, 0, size),
		Fields:   make([]Field, 0, size),
		Browsers: make(map[string]any),
		Medias:   make(map[string]any),
	}
}

// Mapper converts repeaters between their nested and flattened shapes. It
// holds no per-call state and is safe for concurrent use when its TypeLookup is.
type Mapper struct {
	types  TypeLookup
	logger *log.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger reports orphaned repeaters and unreadable stored data to l.
func WithLogger(l *log.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Mapper resolving repeater types through types.
func New(types TypeLookup, opts ...Option) *Mapper {
	m := &Mapper{
		types:  types,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LiftForCreate copies each declared repeater found under fields["repeaters"]
// to its own top-level key. Medias are left alone because the record does not
// exist yet.
func (m *Mapper) LiftForCreate(fields Fields, decl declaration.Declaration) Fields {
	if fields == nil {
		return nil
	}
	out := fields.Clone()
	nested, ok := fields.Map(KeyRepeaters)
	if !ok {
		return out
	}
	for _, name := range decl.Names() {
		if value, ok := nested[name]; ok && value != nil {
			out[name] = value
		}
	}
	return out
}

// LiftForSave does what LiftForCreate does and also lifts every item's
// medias into fields["medias"], keyed by mediakey.Encode(role, name, index).
func (m *Mapper) LiftForSave(fields Fields, decl declaration.Declaration) Fields {
	out := m.LiftForCreate(fields, decl)
	nested, ok := fields.Map(KeyRepeaters)
	if !ok {
		return out
	}

	var lifted map[string]any
	for _, name := range decl.Names() {
		items, ok := asItems(nested[name])
		if !ok {
			continue
		}
		for index, item := range items {
			medias, ok := asMap(item[KeyMedias])
			if !ok || len(medias) == 0 {
				continue
			}
			if lifted == nil {
				src, _ := out.Map(KeyMedias)
				lifted = make(map[string]any, len(src)+len(medias))
				for k, v := range src {
					lifted[k] = v
				}
			}
			for role, media := range medias {
				lifted[mediakey.Encode(role, name, index)] = media
			}
		}
	}
	if lifted != nil {
		out[KeyMedias] = lifted
	}
	return out
}

// Flatten builds the flattened collections for the repeater called name from
// its stored items. stored may be a decoded array or a JSON document. ok is
// false when the repeater type cannot be resolved or stored is not an array;
// callers should then leave the payload untouched.
func (m *Mapper) Flatten(fields Fields, name, aliasTarget string, stored any) (FlattenedSet, bool) {
	items, ok := storedItems(stored)
	if !ok {
		m.logger.Printf("json repeater %q: stored value is not an array, skipping", name)
		return FlattenedSet{}, false
	}

	set := newFlattenedSet(len(items))
	if len(items) == 0 {
		return set, true
	}

	def, ok := m.resolve(name, aliasTarget)
	if !ok {
		// code removed, data left behind
		m.logger.Printf("json repeater %q: no definition registered, leaving fields untouched", name)
		return FlattenedSet{}, false
	}

	topMedias, _ := fields.Map(KeyMedias)
	for index, item := range items {
		id := itemID(item, index)

		set.Metadata = append(set.Metadata, Metadata{
			ID:              id,
			Type:            def.Component,
			Title:           def.Title,
			TitleField:      def.TitleField,
			HideTitlePrefix: def.HideTitlePrefix,
		})

		if browsers, ok := asMap(item[KeyBrowsers]); ok {
			for _, key := range sortedKeys(browsers) {
				set.Browsers[blockKey(id, key)] = browsers[key]
			}
		}

		for _, key := range sortedKeys(item) {
			if _, skip := reserved[key]; skip {
				continue
			}
			set.Fields = append(set.Fields, Field{Name: blockKey(id, key), Value: item[key]})
		}

		if medias, ok := asMap(item[KeyMedias]); ok && len(medias) > 0 {
			for _, role := range sortedKeys(medias) {
				media, found := topMedias[mediakey.Encode(role, name, index)]
				if !found || media == nil {
					continue
				}
				set.Medias[blockKey(id, role)] = media
			}
		}
	}
	return set, true
}

// GetJsonRepeater flattens one repeater and returns fields augmented with
// repeaters[name], repeaterFields[name], repeaterBrowsers[name] and
// repeaterMedias[name]. When Flatten reports false, fields is returned as is.
func (m *Mapper) GetJsonRepeater(fields Fields, name, aliasTarget string, stored any) Fields {
	set, ok := m.Flatten(fields, name, aliasTarget, stored)
	if !ok {
		return fields
	}
	return apply(fields, name, set)
}

// GetFormFields flattens every declared repeater whose stored value is
// present and not empty.
func (m *Mapper) GetFormFields(fields Fields, decl declaration.Declaration) Fields {
	out := fields
	for _, name := range decl.Names() {
		stored, ok := out[name]
		if !ok || stored == nil {
			continue
		}
		items, ok := storedItems(stored)
		if ok && len(items) == 0 {
			continue
		}
		alias, _ := decl.AliasTarget(name)
		out = m.GetJsonRepeater(out, name, alias, stored)
	}
	return out
}

func (m *Mapper) resolve(name, aliasTarget string) (registry.Definition, bool) {
	if m.types == nil {
		return registry.Definition{}, false
	}
	return m.types.Resolve(name, aliasTarget)
}

func apply(fields Fields, name string, set FlattenedSet) Fields {
	out := fields.Clone()
	out.setNested(KeyRepeaters, name, set.Metadata)
	out.setNested(KeyRepeaterFields, name, set.Fields)
	out.setNested(KeyRepeaterBrowsers, name, set.Browsers)
	out.setNested(KeyRepeaterMedias, name, set.Medias)
	return out
}

func itemID(item map[string]any, index int) any {
	if id, ok := item[KeyID]; ok && id != nil {
		return id
	}
	return index
}
