package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config = &defaultConfig
	logger = logrus.StandardLogger().WithField("type", "poolctl")
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Encode, decode and build signal pool program instructions",
	Long: `A CLI for the signal pool program. It decodes instruction payloads,
builds instructions from request files and derives pool addresses.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		config, err = loadConfig(viper.GetViper(), path)
		if err != nil {
			return err
		}

		configureLogger(config)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func main() {
	Execute()
}
