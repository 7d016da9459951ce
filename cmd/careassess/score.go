package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

var scoreCmd = &cobra.Command{
	Use:   "score [answers-file]",
	Short: "Score a YAML or JSON answers file",
	Long: `Reads answers (YAML or JSON, "-" for stdin), checks them against the
question catalog and prints the evaluation as JSON.

Example:
  careassess score answers.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cfg.Assessment)
		if err != nil {
			return err
		}
		return runScore(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], catalog)
	},
}

func runScore(in io.Reader, out io.Writer, path string, catalog *assessment.Catalog) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}

	answers, err := assessment.ParseAnswers(data)
	if err != nil {
		return err
	}
	if invalid := catalog.InvalidOptions(answers); len(invalid) > 0 {
		problems := make([]string, 0, len(invalid))
		for id, values := range invalid {
			for _, value := range values {
				problems = append(problems, fmt.Sprintf("%s: unknown option %q", id, value))
			}
		}
		sort.Strings(problems)
		return fmt.Errorf("answers: %s", strings.Join(problems, "; "))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(assessment.Evaluate(answers))
}
