package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveTo string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	Long: `Prints the configuration after applying the profile, the config file and
environment overrides (WAVY_PROFILE, WAVY_LOG_LEVEL, WAVY_TARGET_FPS,
WAVY_REDUCED_MOTION). Use --save to write it to a file as a starting point.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&saveTo, "save", "", "write the configuration to this file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if saveTo != "" {
		if err := cfg.Save(saveTo); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", saveTo)
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
