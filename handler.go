/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package jsonrepeater

import (
	"fmt"
	"log"

	"github.com/suparena/jsonrepeater/declaration"
	"github.com/suparena/jsonrepeater/mapper"
	"github.com/suparena/jsonrepeater/registry"
)

// SupportsJsonRepeaters is implemented by repositories that keep repeaters in
// a JSON column.
type SupportsJsonRepeaters interface {
	// PrepareFieldsBeforeCreate copies submitted repeaters to top-level fields.
	PrepareFieldsBeforeCreate(fields mapper.Fields) mapper.Fields
	// PrepareFieldsBeforeSave also lifts repeater medias into fields["medias"].
	PrepareFieldsBeforeSave(fields mapper.Fields) mapper.Fields
	// GetFormFields flattens every stored repeater for the form layer.
	GetFormFields(fields mapper.Fields) mapper.Fields
	// GetJsonRepeater flattens a single repeater.
	GetJsonRepeater(fields mapper.Fields, name string, stored any) mapper.Fields
}

// Handler implements SupportsJsonRepeaters for one module.
type Handler struct {
	decl   declaration.Declaration
	mapper *mapper.Mapper
}

var _ SupportsJsonRepeaters = (*Handler)(nil)

type handlerOptions struct {
	cacheSize int
	logger    *log.Logger
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerOptions)

// WithResolverCache memoizes type resolution in an LRU cache of size entries.
func WithResolverCache(size int) HandlerOption {
	return func(o *handlerOptions) {
		o.cacheSize = size
	}
}

// WithLogger sends orphaned repeater reports to l.
func WithLogger(l *log.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.logger = l
	}
}

// NewHandler creates a Handler for the repeaters in decl, resolving their
// types against types.
func NewHandler(decl declaration.Declaration, types registry.TypeRegistry, opts ...HandlerOption) (*Handler, error) {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}

	var lookup mapper.TypeLookup = registry.NewResolver(types)
	if o.cacheSize > 0 {
		cached, err := registry.NewCachedResolver(types, o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create resolver cache: %w", err)
		}
		lookup = cached
	}

	return NewHandlerWithMapper(decl, mapper.New(lookup, mapper.WithLogger(o.logger))), nil
}

// NewHandlerWithMapper creates a Handler around an existing Mapper.
func NewHandlerWithMapper(decl declaration.Declaration, m *mapper.Mapper) *Handler {
	return &Handler{decl: decl, mapper: m}
}

// Declaration returns the repeaters this handler processes.
func (h *Handler) Declaration() declaration.Declaration {
	return h.decl
}

func (h *Handler) PrepareFieldsBeforeCreate(fields mapper.Fields) mapper.Fields {
	return h.mapper.LiftForCreate(fields, h.decl)
}

func (h *Handler) PrepareFieldsBeforeSave(fields mapper.Fields) mapper.Fields {
	return h.mapper.LiftForSave(fields, h.decl)
}

func (h *Handler) GetFormFields(fields mapper.Fields) mapper.Fields {
	return h.mapper.GetFormFields(fields, h.decl)
}

func (h *Handler) GetJsonRepeater(fields mapper.Fields, name string, stored any) mapper.Fields {
	alias, _ := h.decl.AliasTarget(name)
	return h.mapper.GetJsonRepeater(fields, name, alias, stored)
}
