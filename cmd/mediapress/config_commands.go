package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"mediapress/internal/config"
)

func newConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mediapress configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigInitCommand(configPath))
	cmd.AddCommand(newConfigShowCommand(configPath))
	return cmd
}

func newConfigInitCommand(configPath *string) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := *configPath
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				target = defaultPath
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return err
			}
			if _, err := os.Stat(expanded); err == nil && !forceFlag {
				return fmt.Errorf("%s already exists (use --force to overwrite)", expanded)
			}
			if err := config.CreateSample(expanded); err != nil {
				return err
			}
			fmt.Printf("Wrote sample configuration to %s\n", expanded)
			return nil
		},
	}
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			redacted := *cfg
			if redacted.Storage.SecretKey != "" {
				redacted.Storage.SecretKey = "<redacted>"
			}
			if redacted.Backend.AuthToken != "" {
				redacted.Backend.AuthToken = "<redacted>"
			}
			encoded, err := toml.Marshal(redacted)
			if err != nil {
				return err
			}
			fmt.Print(string(encoded))
			return nil
		},
	}
}
