package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/styles"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the visual style presets",
	RunE:  runStyles,
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(_ *cobra.Command, _ []string) error {
	all, err := styles.All()
	if err != nil {
		return err
	}
	for _, s := range all {
		fmt.Printf("%-16s %s\n", s.Name, s.Description)
	}
	return nil
}
