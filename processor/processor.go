/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/suparena/jsonrepeater"
	"github.com/suparena/jsonrepeater/config"
	"github.com/suparena/jsonrepeater/datastore"
	"github.com/suparena/jsonrepeater/datastore/ddb"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/mapper"
	"github.com/suparena/jsonrepeater/storagemodels"
)

// StoreFactory opens the record store of a module.
type StoreFactory func(ctx context.Context, cfg *config.Config, module string) (datastore.DataStore[storagemodels.Record], error)

// DynamoDBStores opens stores on the table configured in cfg.DynamoDB.
func DynamoDBStores(ctx context.Context, cfg *config.Config, module string) (datastore.DataStore[storagemodels.Record], error) {
	store, err := ddb.NewRecordStore(ctx, ddb.Options{
		Region:    cfg.DynamoDB.Region,
		Table:     cfg.DynamoDB.Table,
		AccessKey: cfg.DynamoDB.AccessKey,
		SecretKey: cfg.DynamoDB.SecretKey,
		Endpoint:  cfg.DynamoDB.Endpoint,
	}, module)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Option configures NewRootCmd.
type Option func(*app)

// WithStoreFactory replaces the DynamoDB store used by the record commands.
func WithStoreFactory(f StoreFactory) Option {
	return func(a *app) {
		a.newStore = f
	}
}

type app struct {
	configPath string
	module     string
	verbose    bool

	cfg      *config.Config
	modules  *jsonrepeater.Modules
	newStore StoreFactory
}

// Main runs the tool with the process arguments and exits non-zero on error.
func Main() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd creates the repeatermap root command.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{newStore: DynamoDBStores}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:           "repeatermap",
		Short:         "Map JSON repeaters between stored records and form fields",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVarP(&a.module, "module", "m", "", "content module whose repeaters are processed")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "report repeaters without a definition on stderr")

	registerNormalizeCmd(rootCmd, a)
	registerFlattenCmd(rootCmd, a)
	registerDecodeKeyCmd(rootCmd)
	registerRecordCmd(rootCmd, a)
	registerVersionCmd(rootCmd)

	return rootCmd
}

// handler loads the configuration on first use and returns the handler of
// the selected module.
func (a *app) handler(cmd *cobra.Command) (jsonrepeater.SupportsJsonRepeaters, error) {
	if a.modules == nil {
		cfg, err := a.loadConfig()
		if err != nil {
			return nil, err
		}

		var opts []jsonrepeater.HandlerOption
		if a.verbose {
			opts = append(opts, jsonrepeater.WithLogger(log.New(cmd.ErrOrStderr(), "repeatermap: ", 0)))
		}
		modules, _, err := jsonrepeater.FromConfig(cfg, opts...)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
		a.modules = modules
	}

	module, err := a.selectedModule()
	if err != nil {
		return nil, err
	}
	return a.modules.Get(module)
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath == "" {
		return config.FromEnv()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// selectedModule defaults to the only configured module.
func (a *app) selectedModule() (string, error) {
	if a.module != "" {
		return a.module, nil
	}
	names := a.modules.List()
	if len(names) == 1 {
		return names[0], nil
	}
	return "", errors.NewValidationError("module", fmt.Sprintf("--module is required, configured modules: %v", names))
}

func readPayload(cmd *cobra.Command, args []string) (mapper.Fields, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	return readFields(cmd.InOrStdin(), path)
}

func readFields(stdin io.Reader, path string) (mapper.Fields, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path is provided by caller
	}
	if err != nil {
		return nil, err
	}

	var fields mapper.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode payload %s: %w", path, err)
	}
	return fields, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
