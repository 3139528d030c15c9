package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve PATH...",
	Short: "Print the display value of property paths",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("data", "", "YAML file bound as the focus object")
}

// runResolve prints one line per path: the path, a tab, and its display.
// MISSING paths print an empty display.
func runResolve(cmd *cobra.Command, args []string) error {
	dataPath, _ := cmd.Flags().GetString("data")

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	focus, err := loadData(dataPath)
	if err != nil {
		return err
	}

	ctx := e.NewContext(nil)
	out := cmd.OutOrStdout()
	for _, arg := range args {
		p, err := e.Path(arg)
		if err != nil {
			return err
		}
		s, _ := e.Resolver.Display(p, ctx, focus)
		if _, err := fmt.Fprintf(out, "%s\t%s\n", p, s); err != nil {
			return err
		}
	}
	return nil
}
