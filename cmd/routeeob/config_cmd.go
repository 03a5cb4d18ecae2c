package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"routeeob/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create config.toml",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config.toml with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.info.FileFound && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.info.Path)
			}
			if err := config.SaveConfig(config.DefaultConfig(), a.info.Path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.info.Path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
