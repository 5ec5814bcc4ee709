/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"github.com/spf13/cobra"
	"github.com/suparena/jsonrepeater/repository"
	"github.com/suparena/jsonrepeater/storagemodels"
)

func registerRecordCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage stored records of a module",
	}

	registerRecordPutCmd(cmd, a)
	registerRecordGetCmd(cmd, a)
	registerRecordFormCmd(cmd, a)
	registerRecordListCmd(cmd, a)
	registerRecordDeleteCmd(cmd, a)

	parent.AddCommand(cmd)
}

// repository opens the store of the selected module.
func (a *app) repository(cmd *cobra.Command) (*repository.Repository, error) {
	h, err := a.handler(cmd)
	if err != nil {
		return nil, err
	}
	module, err := a.selectedModule()
	if err != nil {
		return nil, err
	}
	store, err := a.newStore(cmd.Context(), a.cfg, module)
	if err != nil {
		return nil, err
	}
	return repository.New(store, module, h)
}

type putResult struct {
	Record *storagemodels.Record `json:"record"`
	Medias map[string]any        `json:"medias,omitempty"`
}

func registerRecordPutCmd(parent *cobra.Command, a *app) {
	var create bool
	cmd := &cobra.Command{
		Use:   "put ID [file]",
		Short: "Store a form submission",
		Long: `Store a form submission as record ID. The record must exist unless
--create is given. On update the lifted medias are printed next to the record.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd)
			if err != nil {
				return err
			}
			fields, err := readPayload(cmd, args[1:])
			if err != nil {
				return err
			}
			if create {
				rec, err := repo.Create(cmd.Context(), args[0], fields)
				if err != nil {
					return err
				}
				return writeJSON(cmd, putResult{Record: rec})
			}
			rec, medias, err := repo.Update(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			return writeJSON(cmd, putResult{Record: rec, Medias: medias})
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create a new record")
	parent.AddCommand(cmd)
}

func registerRecordGetCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd)
			if err != nil {
				return err
			}
			rec, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, rec)
		},
	}
	parent.AddCommand(cmd)
}

func registerRecordFormCmd(parent *cobra.Command, a *app) {
	var mediasPath string
	cmd := &cobra.Command{
		Use:   "form ID",
		Short: "Show the edit form fields of a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd)
			if err != nil {
				return err
			}
			var medias map[string]any
			if mediasPath != "" {
				m, err := readFields(cmd.InOrStdin(), mediasPath)
				if err != nil {
					return err
				}
				medias = m
			}
			form, err := repo.FormFields(cmd.Context(), args[0], medias)
			if err != nil {
				return err
			}
			return writeJSON(cmd, form)
		},
	}
	cmd.Flags().StringVar(&mediasPath, "medias", "", "JSON file of medias keyed by media role key")
	parent.AddCommand(cmd)
}

func registerRecordListCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored records of the module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd)
			if err != nil {
				return err
			}
			records, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, records)
		},
	}
	parent.AddCommand(cmd)
}

func registerRecordDeleteCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd)
			if err != nil {
				return err
			}
			return repo.Delete(cmd.Context(), args[0])
		},
	}
	parent.AddCommand(cmd)
}
