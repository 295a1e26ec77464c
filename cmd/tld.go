package main

import (
	"dropwatch/internal/config"
	"dropwatch/internal/registry"
	"fmt"

	"github.com/spf13/cobra"
)

func tldCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tld",
		Short: "Inspects and maintains the TLD registry",
	}

	cmd.AddCommand(tldListCommand(cfg), tldAddCommand(cfg))

	return cmd
}

func tldListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Prints all known TLD entries, built-in and user-defined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			storePath, err := cfg.UserStorePath()
			if err != nil {
				return err
			}
			reg := registry.Load(cmd.Context(), storePath)

			for _, e := range reg.Entries() {
				fmt.Printf("%-12s %-36s %s\n", e.TLD, e.Server, e.Pattern)
			}

			return nil
		},
	}
}

func tldAddCommand(cfg *config.Config) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "add <tld> <server> <pattern>",
		Short: "Adds a TLD entry to the user store",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			storePath, err := cfg.UserStorePath()
			if err != nil {
				return err
			}
			reg := registry.Load(cmd.Context(), storePath)

			entry, err := reg.Add(args[0], args[1], args[2], overwrite)
			if err != nil {
				return err
			}

			fmt.Printf("added %s -> %s (%s)\n", entry.TLD, entry.Server, entry.Pattern)

			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing entry for the same TLD")

	return cmd
}
