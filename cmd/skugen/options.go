package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Load every category once and print the option sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		snap := a.Loader.Load(cmd.Context())

		out := cmd.OutOrStdout()
		for _, spec := range a.Specs {
			set := snap.Set(spec.Key)
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s) · %d", spec.DisplayTitle(), spec.Sheet, set.Len())))

			rows := make([][]string, 0, set.Len())
			for _, opt := range set.Options {
				rows = append(rows, []string{opt.Label, opt.Value})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Label", "Value").
				Rows(rows...)
			fmt.Fprintln(out, t.String())
		}

		for _, d := range snap.Diagnostics {
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("⚠ %s\n  %s", d.Message, d.Cause)))
		}
		return nil
	},
}
