package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/solatis/ambrosia/internal/assessment"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply posted form fields to a new submission and grade it",
	RunE:  runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().String("assessment", "", "assessment YAML file")
	applyCmd.Flags().StringArray("field", nil, "posted field as name=value (repeatable)")
	applyCmd.Flags().String("form", "", "URL-encoded form body")
}

type applyResult struct {
	Submission *assessment.Submission `yaml:"submission"`
	Missing    []string               `yaml:"missing,omitempty"`
	Refused    []string               `yaml:"refused,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("assessment")
	fields, _ := cmd.Flags().GetStringArray("field")
	body, _ := cmd.Flags().GetString("form")
	if path == "" {
		return fmt.Errorf("--assessment required")
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read assessment: %w", err)
	}
	a, err := assessment.LoadAssessment(data)
	if err != nil {
		return err
	}
	values, err := parseFields(body, fields)
	if err != nil {
		return err
	}

	sub := assessment.NewSubmission(uuid.NewString(), a)
	ctx := e.NewContext(nil)
	ctx.Push("assessment", a, "")

	res := applyResult{Submission: sub}
	if err := e.Decoder.Apply(ctx, sub, values, nil); err != nil {
		res.Refused = refusals(err)
	}
	sub.Grade(a)
	res.Missing = sub.Missing(a)

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	return enc.Close()
}

// parseFields merges a URL-encoded body with name=value pairs.
func parseFields(body string, fields []string) (url.Values, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse --form: %w", err)
	}
	for _, f := range fields {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--field %q: want name=value", f)
		}
		values.Add(name, value)
	}
	return values, nil
}

func refusals(err error) []string {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		out = append(out, e.Error())
	}
	return out
}
