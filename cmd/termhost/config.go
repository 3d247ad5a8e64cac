package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	sidebar "github.com/derekross/obsidian-opencode-sidebar"
	"pkt.systems/prettyx"
	"pkt.systems/pslog"
)

type configView struct {
	ConfigFile   string `json:"config_file,omitempty"`
	LogFile      string `json:"log_file,omitempty"`
	PollInterval string `json:"poll_interval"`
	Term         string `json:"term"`
}

// NewConfigCommand builds the config inspection command.
func NewConfigCommand(loader *sidebar.Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			view := configView{
				ConfigFile:   loader.ConfigFileUsed(),
				LogFile:      cfg.Host.LogFile,
				PollInterval: cfg.Host.PollInterval.String(),
				Term:         cfg.Terminal.Term,
			}
			data, err := json.Marshal(view)
			if err != nil {
				return err
			}
			return prettyx.PrettyTo(cmd.OutOrStdout(), data, prettyx.DefaultOptions)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := pslog.Ctx(cmd.Context()).With("component", "config")
			path, err := sidebar.InitConfig(logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.AddCommand(initCmd)

	return cmd
}
