package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/kbsync/internal/article"
	"github.com/roach88/kbsync/internal/forum"
	"github.com/roach88/kbsync/internal/store"
	"github.com/roach88/kbsync/internal/syncer"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	ConfigFile  string
	Concurrency int64
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile all articles with the database and forum",
		Long: `Reconcile every local article with the database and the discussion board.

Articles are classified by content checksum: new articles get a discussion
and a database row, articles linking a pre-existing discussion get only a
row, changed articles get their row and thread updated in place. Articles
whose content already has a row are skipped, which makes re-runs after a
crash or partial failure safe.

Credentials come from the environment: KBSYNC_GITHUB_TOKEN (or
GITHUB_TOKEN) and KBSYNC_DB_DSN (or DATABASE_URL).

Example:
  kbsync sync
  kbsync sync --config ./kbsync.cue --concurrency 8 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", DefaultConfigFile, "path to the kbsync config file")
	cmd.Flags().Int64Var(&opts.Concurrency, "concurrency", 0, "max in-flight articles (0 = unbounded)")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)

	env, err := setupEnvironment(opts.ConfigFile, cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := reconcileAll(cmd.Context(), env, opts.Concurrency); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d articles.\n", len(env.articles))
	return nil
}

// reconcileAll fans the environment's syncer out across the corpus and
// maps a partially failed run onto the process exit contract.
func reconcileAll(ctx context.Context, env *environment, concurrency int64) error {
	runner := &syncer.Runner{
		Syncer:      env.syncer,
		Concurrency: concurrency,
	}
	if runner.Run(ctx, env.articles) {
		return NewExitError(ExitFailure, "one or more articles failed to sync")
	}
	return nil
}

// environment bundles the process-wide collaborators: store and forum
// clients constructed once and shared read-only across all concurrent
// reconciliations, plus the loaded corpus.
type environment struct {
	db       syncer.Database
	fc       forum.Client
	syncer   *syncer.Syncer
	articles []*article.Article
	closeDB  func() error
}

func (e *environment) close() {
	if e.closeDB == nil {
		return
	}
	if err := e.closeDB(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// setupEnvironment loads config and secrets, connects both remote stores,
// and reads the article corpus. Any failure here is fatal for the whole
// run: nothing has been reconciled yet.
func setupEnvironment(configFile string, cmd *cobra.Command) (*environment, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	secrets, err := LoadSecrets()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load credentials", err)
	}

	slog.Info("opening database", "driver", cfg.DBDriver)
	st, err := store.Open(cfg.DBDriver, secrets.DBDSN)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	slog.Info("connecting to forum", "repo", cfg.Owner+"/"+cfg.Repo, "category", cfg.Category)
	fc, err := forum.NewGitHubClient(cmd.Context(), secrets.GitHubToken, cfg.Owner, cfg.Repo, cfg.Category)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "connect to forum", err)
	}

	articles, err := article.LoadDir(cfg.ContentDir)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "load articles", err)
	}
	slog.Info("articles loaded", "dir", cfg.ContentDir, "count", len(articles))

	return &environment{
		db: st,
		fc: fc,
		syncer: &syncer.Syncer{
			DB:          st,
			Forum:       fc,
			SiteBaseURL: cfg.SiteBaseURL,
		},
		articles: articles,
		closeDB:  st.Close,
	}, nil
}

// configureLogging sets the default slog handler from the global flags.
func configureLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
