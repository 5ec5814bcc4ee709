/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suparena/jsonrepeater"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/mapper"
	"github.com/suparena/jsonrepeater/mediakey"
)

const (
	stageCreate = "create"
	stageSave   = "save"
)

func registerNormalizeCmd(parent *cobra.Command, a *app) {
	var stage string
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Lift submitted repeaters to top-level fields",
		Long: `Copy each declared repeater from "repeaters" to its own field. With
--stage save the medias of every item are also lifted into "medias".`,
		Example: `  # Prepare a submission for an existing record
  repeatermap -m articles normalize submit.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.handler(cmd)
			if err != nil {
				return err
			}
			fields, err := readPayload(cmd, args)
			if err != nil {
				return err
			}
			switch stage {
			case stageCreate:
				return writeJSON(cmd, h.PrepareFieldsBeforeCreate(fields))
			case stageSave:
				return writeJSON(cmd, h.PrepareFieldsBeforeSave(fields))
			default:
				return errors.NewValidationError("stage", fmt.Sprintf("must be %q or %q, got %q", stageCreate, stageSave, stage))
			}
		},
	}
	cmd.Flags().StringVar(&stage, "stage", stageSave, "submission stage: create or save")
	parent.AddCommand(cmd)
}

func registerFlattenCmd(parent *cobra.Command, a *app) {
	var (
		mediasPath string
		repeater   string
	)
	cmd := &cobra.Command{
		Use:   "flatten [file]",
		Short: "Flatten stored repeaters into form fields",
		Long: `Build repeaters, repeaterFields, repeaterBrowsers and repeaterMedias
from the stored repeater arrays of a record.`,
		Example: `  # Flatten every declared repeater
  repeatermap -m articles flatten record.json

  # Flatten one repeater, joining medias kept by the media subsystem
  repeatermap -m articles flatten --repeater gallery --medias medias.json record.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.handler(cmd)
			if err != nil {
				return err
			}
			fields, err := readPayload(cmd, args)
			if err != nil {
				return err
			}
			if mediasPath != "" {
				medias, err := readFields(cmd.InOrStdin(), mediasPath)
				if err != nil {
					return err
				}
				fields[mapper.KeyMedias] = map[string]any(medias)
			}
			if repeater != "" {
				return writeJSON(cmd, h.GetJsonRepeater(fields, repeater, fields[repeater]))
			}
			return writeJSON(cmd, h.GetFormFields(fields))
		},
	}
	cmd.Flags().StringVar(&mediasPath, "medias", "", "JSON file of medias keyed by media role key")
	cmd.Flags().StringVar(&repeater, "repeater", "", "flatten only this repeater")
	parent.AddCommand(cmd)
}

func registerDecodeKeyCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "decode-key KEY...",
		Short: "Decode media role keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]mediakey.Key, 0, len(args))
			for _, arg := range args {
				k, err := mediakey.Decode(arg)
				if err != nil {
					return err
				}
				keys = append(keys, k)
			}
			return writeJSON(cmd, keys)
		},
	}
	parent.AddCommand(cmd)
}

func registerVersionCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := jsonrepeater.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "repeatermap version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			return nil
		},
	}
	parent.AddCommand(cmd)
}
