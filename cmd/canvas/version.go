package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of canvas",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("canvas version %s\n", strings.TrimSpace(canvas.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
