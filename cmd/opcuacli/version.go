package main

import (
	"fmt"

	"github.com/edgeo-scada/uacore/client"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("opcuacli version %s\n", client.GetVersion().Version)
	},
}
