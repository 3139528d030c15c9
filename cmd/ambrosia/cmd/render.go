package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a view of a definitions file",
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("defs", "", "definitions file")
	renderCmd.Flags().String("view", "", "view name")
	renderCmd.Flags().String("data", "", "YAML file bound as the focus object")
	renderCmd.Flags().String("render-id", "", "fixed render id (UUID), for reproducible element ids")
}

func runRender(cmd *cobra.Command, args []string) error {
	defsPath, _ := cmd.Flags().GetString("defs")
	name, _ := cmd.Flags().GetString("view")
	dataPath, _ := cmd.Flags().GetString("data")
	rawID, _ := cmd.Flags().GetString("render-id")
	if name == "" {
		return fmt.Errorf("--view required")
	}
	var opts []binding.Option
	if rawID != "" {
		id, err := types.ParseRenderID(rawID)
		if err != nil {
			return fmt.Errorf("--render-id: %w", err)
		}
		opts = append(opts, binding.WithRenderID(id))
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	doc, err := loadDefinitions(defsPath)
	if err != nil {
		return err
	}
	focus, err := loadData(dataPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := e.Render(out, doc, name, focus, opts...); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err = fmt.Fprintln(out)
	return err
}
