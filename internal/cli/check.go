package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kbsync/internal/classify"
	"github.com/roach88/kbsync/internal/content"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	ConfigFile string
}

// CheckResult is the dry-run classification for one article.
type CheckResult struct {
	File   string `json:"file"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// CheckReport aggregates the dry run.
type CheckReport struct {
	Results []CheckResult `json:"results"`
	Failed  int           `json:"failed"`
}

// String renders the report for text output.
func (r *CheckReport) String() string {
	var b strings.Builder
	for _, res := range r.Results {
		if res.Error != "" {
			fmt.Fprintf(&b, "%-8s %s (%s)\n", "error", res.File, res.Error)
			continue
		}
		fmt.Fprintf(&b, "%-8s %s\n", res.Action, res.File)
	}
	fmt.Fprintf(&b, "%d articles, %d failed", len(r.Results), r.Failed)
	return b.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify all articles without mutating anything",
		Long: `Dry run: classify each article as create, link, update, or noop against
the live database and discussion list, and report the decision per file.
Nothing is written, locally or remotely.

Example:
  kbsync check --config ./kbsync.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", DefaultConfigFile, "path to the kbsync config file")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	env, err := setupEnvironment(opts.ConfigFile, cmd)
	if err != nil {
		return err
	}
	defer env.close()

	report, err := buildCheckReport(cmd.Context(), env)
	if err != nil {
		return err
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Success(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d articles failed classification", report.Failed))
	}
	return nil
}

// buildCheckReport classifies every article in the environment against the
// live discussion list and database rows. It only ever reads: the database
// is consulted through SelectByChecksum and the forum through ListAll, so a
// dry run leaves every surface untouched.
func buildCheckReport(ctx context.Context, env *environment) (*CheckReport, error) {
	discussions, err := env.fc.ListAll(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "list discussions", err)
	}

	rowExists := func(ctx context.Context, checksum string) (bool, error) {
		row, err := env.db.SelectByChecksum(ctx, checksum)
		if err != nil {
			return false, err
		}
		return row != nil, nil
	}

	report := &CheckReport{}
	for _, a := range env.articles {
		result := CheckResult{File: a.Path}

		checksum, err := content.Checksum(a.Body)
		if err != nil {
			result.Error = err.Error()
			report.Failed++
			report.Results = append(report.Results, result)
			continue
		}

		decision, err := classify.Classify(ctx, a, checksum, discussions, rowExists)
		if err != nil {
			result.Error = err.Error()
			report.Failed++
		} else {
			result.Action = decision.Action.String()
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}
