package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var selections []string

var assembleCmd = &cobra.Command{
	Use:   "assemble --select key=label ...",
	Short: "Resolve one label per category and print the SKU",
	Example: `  skugen assemble --select category=WidgetA --select feature=Red \
    --select color=M --select size=Cotton`,
	RunE: func(cmd *cobra.Command, args []string) error {
		selection, err := parseSelections(selections)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		snap, err := a.Cache.Get(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range snap.Diagnostics {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("⚠ "+d.Message))
		}

		id, _, err := a.Assemble(snap, selection)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	assembleCmd.Flags().StringArrayVar(&selections, "select", nil, "所选标签，格式 key=label，可重复")
}

func parseSelections(pairs []string) (map[string]string, error) {
	selection := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, label, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --select %q, want key=label", pair)
		}
		selection[key] = label
	}
	return selection, nil
}
