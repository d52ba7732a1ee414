package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tron-sweep/internal/registry"
)

var pickersCmd = &cobra.Command{
	Use:   "pickers",
	Short: "List cell type pickers",
	Long: `Shows the pickers that can fill the grid. Select one with
grid.picker in the config file.`,
	Args: cobra.NoArgs,
	Run:  runPickers,
}

func runPickers(_ *cobra.Command, _ []string) {
	pickers := registry.List()

	fmt.Println("Available pickers:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, p := range pickers {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, p := range pickers {
		name := p.Name
		if name == registry.DefaultPicker {
			name += "*"
		}
		fmt.Printf("  %-*s  %s\n", maxNameLen, name, p.Description)
	}

	fmt.Println()
	fmt.Println("* default")
}
