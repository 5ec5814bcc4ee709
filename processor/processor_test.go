/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/jsonrepeater/config"
	"github.com/suparena/jsonrepeater/datastore"
	"github.com/suparena/jsonrepeater/datastore/mock"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/mediakey"
	"github.com/suparena/jsonrepeater/storagemodels"
)

const testConfig = `
definitions:
  - name: gallery
    component: Gallery
    title: Gallery
    titleField: caption
modules:
  articles:
    jsonRepeaters: [gallery]
`

const submission = `{
  "title": "Hello",
  "repeaters": {
    "gallery": [
      {"caption": "A"},
      {"id": "pinned", "caption": "B", "medias": {"cover": [{"id": 7}]}}
    ]
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, opts []Option, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(opts...)
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestNormalizeSave(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)

	out, err := run(t, submission, nil, "--config", cfgPath, "normalize")
	require.NoError(t, err)

	v := decode(t, out)
	assert.Len(t, v["gallery"], 2)
	medias := v["medias"].(map[string]any)
	assert.Contains(t, medias, mediakey.Encode("cover", "gallery", 1))
}

func TestNormalizeCreateFromFile(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)
	payload := writeFile(t, "submit.json", submission)

	out, err := run(t, "", nil, "-c", cfgPath, "-m", "articles", "normalize", "--stage", "create", payload)
	require.NoError(t, err)

	v := decode(t, out)
	assert.Len(t, v["gallery"], 2)
	assert.NotContains(t, v, "medias")
}

func TestNormalizeRejectsUnknownStage(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)

	_, err := run(t, submission, nil, "-c", cfgPath, "normalize", "--stage", "publish")
	assert.True(t, errors.IsValidationError(err))
}

func TestUnknownModule(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)

	_, err := run(t, submission, nil, "-c", cfgPath, "-m", "pages", "normalize")
	assert.True(t, errors.IsNotFound(err))
}

func TestFlattenWithMedias(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)
	medias := writeFile(t, "medias.json", `{"`+mediakey.Encode("cover", "gallery", 1)+`": [{"id": 7}]}`)
	record := `{"gallery": [{"caption": "A"}, {"id": "pinned", "caption": "B", "medias": {"cover": []}}]}`

	out, err := run(t, record, nil, "-c", cfgPath, "flatten", "--medias", medias)
	require.NoError(t, err)

	v := decode(t, out)
	fields := v["repeaterFields"].(map[string]any)["gallery"].([]any)
	require.Len(t, fields, 2)
	assert.Equal(t, "blocks[0][caption]", fields[0].(map[string]any)["name"])

	repeaterMedias := v["repeaterMedias"].(map[string]any)["gallery"].(map[string]any)
	assert.Contains(t, repeaterMedias, "blocks[pinned][cover]")
}

func TestDecodeKey(t *testing.T) {
	out, err := run(t, "", nil, "decode-key", mediakey.Encode("cover", "gallery", 3))
	require.NoError(t, err)

	var keys []mediakey.Key
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, []mediakey.Key{{Role: "cover", Repeater: "gallery", Index: 3}}, keys)

	_, err = run(t, "", nil, "decode-key", "blocks[0][cover]")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "repeatermap version")
}

func TestRecordCommands(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", testConfig)
	store := mock.New[storagemodels.Record]()
	opts := []Option{WithStoreFactory(func(ctx context.Context, cfg *config.Config, module string) (datastore.DataStore[storagemodels.Record], error) {
		assert.Equal(t, "articles", module)
		return store, nil
	})}

	_, err := run(t, submission, opts, "-c", cfgPath, "record", "put", "article-1")
	assert.True(t, errors.IsNotFound(err), "update of a missing record: %v", err)

	out, err := run(t, submission, opts, "-c", cfgPath, "record", "put", "--create", "article-1")
	require.NoError(t, err)
	assert.Equal(t, "article-1", decode(t, out)["record"].(map[string]any)["id"])

	out, err = run(t, submission, opts, "-c", cfgPath, "record", "put", "article-1")
	require.NoError(t, err)
	lifted := decode(t, out)["medias"].(map[string]any)
	assert.Contains(t, lifted, mediakey.Encode("cover", "gallery", 1))

	medias, err := json.Marshal(lifted)
	require.NoError(t, err)
	out, err = run(t, string(medias), opts, "-c", cfgPath, "record", "form", "--medias", "-", "article-1")
	require.NoError(t, err)
	repeaterMedias := decode(t, out)["repeaterMedias"].(map[string]any)["gallery"].(map[string]any)
	assert.Contains(t, repeaterMedias, "blocks[pinned][cover]")

	out, err = run(t, "", opts, "-c", cfgPath, "record", "list")
	require.NoError(t, err)
	var records []storagemodels.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.NotContains(t, records[0].Fields, "repeaters")

	_, err = run(t, "", opts, "-c", cfgPath, "record", "delete", "article-1")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Count())
}
