//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/storagemodels"
)

func getRecordStore(t *testing.T) *RecordStore {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set")
	}

	store, err := NewRecordStore(context.Background(), Options{
		Region:    os.Getenv("AWS_REGION"),
		Table:     table,
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
	}, "jsonrepeater-integration")
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestIntegrationRecordLifecycle(t *testing.T) {
	store := getRecordStore(t)
	ctx := context.Background()

	rec := storagemodels.Record{
		ID: "integration-" + time.Now().Format("20060102150405"),
		Fields: map[string]any{
			"title":   "Integration",
			"gallery": []any{map[string]any{"caption": "A"}},
		},
	}
	rec.Touch(time.Now())

	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.GetOne(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	t.Logf("Record: %+v", got)

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("List returned no records")
	}

	if err := store.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetOne(ctx, rec.ID); !errors.IsNotFound(err) {
		t.Fatalf("Expected not found after delete, got: %v", err)
	}
}
