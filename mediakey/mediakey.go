/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mediakey encodes the key under which a repeater item's media is
// lifted into a record's flat medias map.
//
// A key looks like
//
//	json-repeater[7:gallery][1][cover]
//
// The repeater name is length-prefixed, so names and roles may contain any
// character, brackets included, without two triples sharing a key.
package mediakey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suparena/jsonrepeater/errors"
)

const prefix = "json-repeater["

// Key is a decoded media role key.
type Key struct {
	Role     string `json:"role"`
	Repeater string `json:"repeater"`
	Index    int    `json:"index"`
}

// String encodes k.
func (k Key) String() string {
	return Encode(k.Role, k.Repeater, k.Index)
}

// Encode builds the media role key for role on the item at index of repeater.
func Encode(role, repeater string, index int) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(repeater) + len(role) + 16)
	b.WriteString(prefix)
	b.WriteString(strconv.Itoa(len(repeater)))
	b.WriteByte(':')
	b.WriteString(repeater)
	b.WriteString("][")
	b.WriteString(strconv.Itoa(index))
	b.WriteString("][")
	b.WriteString(role)
	b.WriteByte(']')
	return b.String()
}

// Decode parses a key produced by Encode.
func Decode(s string) (Key, error) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return Key{}, malformed(s, "missing prefix")
	}

	lenStr, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return Key{}, malformed(s, "missing repeater length")
	}
	n, err := strconv.Atoi(lenStr)
	if err != nil || n < 0 || n > len(rest) {
		return Key{}, malformed(s, "bad repeater length")
	}
	repeater, rest := rest[:n], rest[n:]

	rest, ok = strings.CutPrefix(rest, "][")
	if !ok {
		return Key{}, malformed(s, "missing index")
	}
	indexStr, rest, ok := strings.Cut(rest, "][")
	if !ok {
		return Key{}, malformed(s, "missing role")
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return Key{}, malformed(s, "bad index")
	}

	role, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return Key{}, malformed(s, "unterminated role")
	}
	return Key{Role: role, Repeater: repeater, Index: index}, nil
}

// IsKey reports whether s decodes as a media role key.
func IsKey(s string) bool {
	_, err := Decode(s)
	return err == nil
}

func malformed(s, reason string) error {
	return errors.NewValidationError("mediakey", fmt.Sprintf("%s in %q", reason, s))
}
