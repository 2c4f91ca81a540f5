package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sigscan/internal/fileutil"
	"sigscan/internal/logging"
	"sigscan/internal/sigmf"
)

// Aggregator scans directory trees of metadata files into Datasets.
type Aggregator struct {
	workers int
	logger  *slog.Logger
}

// NewAggregator builds an aggregator with the given worker count. A count of
// zero or less uses GOMAXPROCS.
func NewAggregator(workers int, logger *slog.Logger) *Aggregator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aggregator{workers: workers, logger: logger}
}

// Scan aggregates every metadata file under root. A missing or non-directory
// root fails immediately; anything that goes wrong with an individual file is
// recorded in the failure list and never aborts the batch. An empty directory
// yields an empty dataset.
func (a *Aggregator) Scan(ctx context.Context, root string) (*Dataset, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	candidates, err := fileutil.DiscoverMetaFiles(root)
	if err != nil {
		return nil, fmt.Errorf("discover metadata files: %w", err)
	}

	ds := &Dataset{
		RunID:      uuid.NewString(),
		Root:       root,
		StartedAt:  time.Now().UTC(),
		Discovered: len(candidates),
	}

	a.logger.Info("scan started",
		logging.String("component", "aggregator"),
		logging.String("run_id", ds.RunID),
		logging.String("root", root),
		logging.Int("candidates", len(candidates)),
		logging.Int("workers", a.workers))

	var mu sync.Mutex
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(a.workers)

	for _, path := range candidates {
		path := path
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, parseErr := ParseFile(path)

			mu.Lock()
			defer mu.Unlock()
			if parseErr != nil {
				a.logger.Warn("metadata file failed",
					logging.String("component", "aggregator"),
					logging.String("path", path),
					logging.String("kind", sigmf.KindOf(parseErr)),
					logging.Error(parseErr))
				ds.Failures = append(ds.Failures, Failure{
					Path:    path,
					Kind:    sigmf.KindOf(parseErr),
					Message: parseErr.Error(),
				})
				return nil
			}

			ds.Rows = append(ds.Rows, res.Row)
			for _, diag := range res.Diagnostics {
				a.logger.Warn("semantic validation issue",
					logging.String("component", "aggregator"),
					logging.String("path", path),
					logging.String("column", diag.Column),
					logging.String("detail", diag.Message))
				ds.Diagnostics = append(ds.Diagnostics, Diagnostic{
					Path:    path,
					Column:  diag.Column,
					Message: diag.Message,
				})
			}
			ds.Annotations = append(ds.Annotations, res.Annotations...)
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	ds.FinishedAt = time.Now().UTC()

	a.logger.Info("scan finished",
		logging.String("component", "aggregator"),
		logging.String("run_id", ds.RunID),
		logging.Int("rows", len(ds.Rows)),
		logging.Int("failures", len(ds.Failures)),
		logging.Duration("elapsed", ds.FinishedAt.Sub(ds.StartedAt)))

	return ds, nil
}
