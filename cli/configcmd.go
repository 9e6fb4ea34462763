package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"librarium/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the librarium configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the defaults",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Println("Wrote", config.DefaultPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
