package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a named decision against a data file",
	RunE:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("defs", "", "definitions file")
	evalCmd.Flags().String("decision", "", "decision name")
	evalCmd.Flags().String("data", "", "YAML file bound as the focus object")
}

func runEval(cmd *cobra.Command, args []string) error {
	defsPath, _ := cmd.Flags().GetString("defs")
	name, _ := cmd.Flags().GetString("decision")
	dataPath, _ := cmd.Flags().GetString("data")
	if name == "" {
		return fmt.Errorf("--decision required")
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

	d, err := e.Decision(doc, name)
	if err != nil {
		return err
	}
	ok, err := e.Evaluator.Evaluate(d, e.NewContext(nil), focus)
	if err != nil {
		return fmt.Errorf("failed to evaluate %s: %w", name, err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
	return err
}
