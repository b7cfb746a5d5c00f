package cmd

import (
	"github.com/crytic/soldrive/version"
)

// versionTemplate describes the text printed by --version.
func versionTemplate() string {
	return version.GetInfo().String()
}

func init() {
	rootCmd.Version = version.GetInfo().Short()
	rootCmd.SetVersionTemplate(versionTemplate())
}
