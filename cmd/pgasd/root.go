package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultHomeDirName = ".pgas"

func defaultNodeHome() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return defaultHomeDirName
	}
	return filepath.Join(userHome, defaultHomeDirName)
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pgasd",
		Short:         "Bridge gas price service for the home and foreign chains",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagHome, defaultNodeHome(), "directory holding config/pgas_config.json")

	InitRootCmd(rootCmd)

	return rootCmd
}
