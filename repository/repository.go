/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/jsonrepeater"
	"github.com/suparena/jsonrepeater/datastore"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/mapper"
	"github.com/suparena/jsonrepeater/storagemodels"
)

// transient keys are consumed by other subsystems and never persisted.
var transient = []string{mapper.KeyRepeaters, mapper.KeyMedias, mapper.KeyBrowsers}

// Repository stores the records of one module.
type Repository struct {
	store     datastore.DataStore[storagemodels.Record]
	module    string
	repeaters jsonrepeater.SupportsJsonRepeaters
	now       func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New creates a Repository for module.
func New(store datastore.DataStore[storagemodels.Record], module string, repeaters jsonrepeater.SupportsJsonRepeaters, opts ...Option) (*Repository, error) {
	if store == nil {
		return nil, errors.NewValidationError("store", "datastore is required")
	}
	if module == "" {
		return nil, errors.NewValidationError("module", "module name must not be empty")
	}
	if repeaters == nil {
		return nil, errors.NewValidationError("repeaters", "repeater handler is required")
	}

	r := &Repository{
		store:     store,
		module:    module,
		repeaters: repeaters,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Module returns the module this repository stores.
func (r *Repository) Module() string {
	return r.module
}

// Create stores a new record built from a form submission.
func (r *Repository) Create(ctx context.Context, id string, fields mapper.Fields) (*storagemodels.Record, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "record id must not be empty")
	}

	_, err := r.store.GetOne(ctx, id)
	switch {
	case err == nil:
		return nil, errors.NewAlreadyExistsError(r.module, id)
	case !errors.IsNotFound(err):
		return nil, fmt.Errorf("failed to check record %s: %w", id, err)
	}

	prepared := r.repeaters.PrepareFieldsBeforeCreate(fields)

	rec := storagemodels.Record{
		ID:     id,
		Module: r.module,
		Fields: persistable(prepared),
	}
	rec.Touch(r.now())

	if err := r.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create record %s: %w", id, err)
	}
	return &rec, nil
}

// Update replaces the fields of an existing record with a form submission.
// It returns the medias lifted from the submitted repeaters, keyed by media
// role key, for the media subsystem to attach.
func (r *Repository) Update(ctx context.Context, id string, fields mapper.Fields) (*storagemodels.Record, map[string]any, error) {
	existing, err := r.store.GetOne(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	prepared := r.repeaters.PrepareFieldsBeforeSave(fields)
	medias, _ := prepared.Map(mapper.KeyMedias)

	rec := storagemodels.Record{
		ID:        id,
		Module:    r.module,
		Fields:    persistable(prepared),
		CreatedAt: existing.CreatedAt,
	}
	rec.Touch(r.now())

	if err := r.store.Put(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("failed to update record %s: %w", id, err)
	}
	return &rec, medias, nil
}

// FormFields loads a record and flattens its repeaters for the edit form.
// medias holds the media associations of the record keyed by media role key.
func (r *Repository) FormFields(ctx context.Context, id string, medias map[string]any) (mapper.Fields, error) {
	rec, err := r.store.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := mapper.Fields(rec.Fields).Clone()
	if len(medias) > 0 {
		fields[mapper.KeyMedias] = medias
	}
	return r.repeaters.GetFormFields(fields), nil
}

// Get returns the stored record.
func (r *Repository) Get(ctx context.Context, id string) (*storagemodels.Record, error) {
	return r.store.GetOne(ctx, id)
}

// List returns every record of the module.
func (r *Repository) List(ctx context.Context) ([]storagemodels.Record, error) {
	return r.store.List(ctx)
}

// Delete removes a record.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func persistable(fields mapper.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, k := range transient {
		delete(out, k)
	}
	return out
}
