/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapper

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Payload keys read and written by the mapper.
const (
	KeyID               = "id"
	KeyRepeaters        = "repeaters"
	KeyMedias           = "medias"
	KeyBrowsers         = "browsers"
	KeyFiles            = "files"
	KeyBlocks           = "blocks"
	KeyRepeaterFields   = "repeaterFields"
	KeyRepeaterBrowsers = "repeaterBrowsers"
	KeyRepeaterMedias   = "repeaterMedias"
)

// reserved item keys never become scalar fields.
var reserved = map[string]struct{}{
	KeyID:        {},
	KeyRepeaters: {},
	KeyFiles:     {},
	KeyMedias:    {},
	KeyBrowsers:  {},
	KeyBlocks:    {},
}

// Fields is a decoded form payload.
type Fields map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f)+4)
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Map returns the nested map stored under key, if any.
func (f Fields) Map(key string) (map[string]any, bool) {
	return asMap(f[key])
}

// setNested writes value under f[key][name], copying the nested map first.
func (f Fields) setNested(key, name string, value any) {
	src, _ := asMap(f[key])
	nested := make(map[string]any, len(src)+1)
	for k, v := range src {
		nested[k] = v
	}
	nested[name] = value
	f[key] = nested
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case Fields:
		return m, m != nil
	default:
		return nil, false
	}
}

// asItems accepts the shapes a repeater array arrives in. Elements that are
// not objects keep their position as empty items.
func asItems(v any) ([]map[string]any, bool) {
	switch s := v.(type) {
	case []map[string]any:
		return s, true
	case []Fields:
		items := make([]map[string]any, len(s))
		for i, f := range s {
			items[i] = f
		}
		return items, true
	case []any:
		items := make([]map[string]any, len(s))
		for i, e := range s {
			items[i], _ = asMap(e)
		}
		return items, true
	default:
		return nil, false
	}
}

// storedItems is asItems plus decoding of repeaters kept as a JSON column.
func storedItems(v any) ([]map[string]any, bool) {
	var raw []byte
	switch s := v.(type) {
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	case json.RawMessage:
		raw = s
	default:
		return asItems(v)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, true
	}
	var decoded []any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false
	}
	return asItems(decoded)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// blockKey builds the form input name "blocks[<id>][<key>]".
func blockKey(id any, key string) string {
	return fmt.Sprintf("blocks[%v][%s]", id, key)
}
