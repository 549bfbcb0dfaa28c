package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kbsync/internal/article"
	"github.com/roach88/kbsync/internal/content"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	ConfigFile string
}

// ValidateReport aggregates corpus validation. Problems are collected
// across the whole corpus rather than stopping at the first bad file, so
// a CI run surfaces everything at once.
type ValidateReport struct {
	Checked  int      `json:"checked"`
	Problems []string `json:"problems,omitempty"`
}

// String renders the report for text output.
func (r *ValidateReport) String() string {
	if len(r.Problems) == 0 {
		return fmt.Sprintf("%d articles OK", r.Checked)
	}
	var b strings.Builder
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "%s\n", p)
	}
	fmt.Fprintf(&b, "%d articles, %d problems", r.Checked, len(r.Problems))
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [content-dir]",
		Short: "Check that every article parses cleanly",
		Long: `Parse every article's frontmatter and body without touching the network.
Intended as a CI gate: a corpus that validates cleanly cannot produce
malformed-content failures during sync.

The content directory comes from the config file unless given as an
argument.

Example:
  kbsync validate
  kbsync validate ./content/troubleshooting`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", DefaultConfigFile, "path to the kbsync config file")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		cfg, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "load config", err)
		}
		dir = cfg.ContentDir
	}

	files, err := article.Files(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "scan content dir", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no articles found in %s", dir))
	}

	report := &ValidateReport{Checked: len(files)}
	for _, path := range files {
		a, err := article.Load(path)
		if err != nil {
			report.Problems = append(report.Problems, err.Error())
			continue
		}
		if _, err := content.Checksum(a.Body); err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", path, err))
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Success(report); err != nil {
		return err
	}
	if len(report.Problems) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d articles failed validation", len(report.Problems)))
	}
	return nil
}
