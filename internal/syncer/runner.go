package syncer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/roach88/kbsync/internal/article"
)

// Runner fans Reconcile out across the whole corpus.
type Runner struct {
	Syncer *Syncer

	// Concurrency caps in-flight reconciliations. Zero or negative means
	// unbounded: one goroutine per article.
	Concurrency int64

	Logger *slog.Logger
}

// Run reconciles every article and reports whether any failed.
//
// The live discussion list is fetched exactly once and shared read-only
// by every classification. Articles run concurrently and independently;
// one failure neither cancels nor blocks the rest, and Run returns only
// after every article has finished. Each failure is logged with the
// originating file path.
func (r *Runner) Run(ctx context.Context, articles []*article.Article) bool {
	log := r.logger()

	discussions, err := r.Syncer.Forum.ListAll(ctx)
	if err != nil {
		log.Error("failed to list discussions", "error", err)
		return true
	}
	log.Info("starting run", "articles", len(articles), "discussions", len(discussions))

	var sem *semaphore.Weighted
	if r.Concurrency > 0 {
		sem = semaphore.NewWeighted(r.Concurrency)
	}

	errs := make([]error, len(articles))
	var wg sync.WaitGroup
	for i, a := range articles {
		wg.Add(1)
		go func(i int, a *article.Article) {
			defer wg.Done()
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					errs[i] = err
					return
				}
				defer sem.Release(1)
			}
			errs[i] = r.Syncer.Reconcile(ctx, a, discussions)
		}(i, a)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		log.Error("article sync failed", "file", articles[i].Path, "error", err)
	}
	log.Info("run complete", "articles", len(articles), "failed", failed)
	return failed > 0
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
