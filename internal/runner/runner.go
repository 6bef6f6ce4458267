// Package runner sequences one monitoring run end to end and enforces the
// single-flight discipline: at most one run at a time, overlapping requests
// rejected rather than queued.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"

	"shop-monitor/internal/diff"
	"shop-monitor/internal/notify"
	"shop-monitor/internal/retry"
	"shop-monitor/internal/scrape"
	"shop-monitor/internal/snapshot"
	"shop-monitor/pkg/models"
)

// ErrAlreadyRunning is returned to callers whose run request arrived while
// another run holds the lock. A conflict, not a pipeline failure.
var ErrAlreadyRunning = errors.New("a check is already in progress")

// Scraper reads the full catalog. Satisfied by *scrape.Catalog.
type Scraper interface {
	Scrape(ctx context.Context) (*scrape.Result, error)
}

// ImageProcessor resolves durable image references. Satisfied by
// *images.Pipeline.
type ImageProcessor interface {
	Process(ctx context.Context, items, prior []models.ShopItem) ([]models.ShopItem, error)
}

// Poster sends one notification batch. Satisfied by *notify.SlackPoster.
type Poster interface {
	Post(ctx context.Context, summary string, blocks []slack.Block) error
}

// Runner owns the run lifecycle. The mutex is the process's running flag;
// the snapshot store owns the only other piece of shared state.
type Runner struct {
	store    *snapshot.Store
	catalog  Scraper
	images   ImageProcessor
	poster   Poster
	reporter Reporter

	blocksLogPath string
	attempts      int
	delay         time.Duration

	mu sync.Mutex
}

func New(store *snapshot.Store, catalog Scraper, images ImageProcessor, poster Poster, reporter Reporter, blocksLogPath string) *Runner {
	return &Runner{
		store:         store,
		catalog:       catalog,
		images:        images,
		poster:        poster,
		reporter:      reporter,
		blocksLogPath: blocksLogPath,
		attempts:      retry.Attempts,
		delay:         retry.Delay,
	}
}

// Run executes one check. It returns ErrAlreadyRunning immediately when a
// run is in flight. Any other error means the run failed: the snapshot is
// left untouched so the next run diffs against the same known-good baseline.
func (r *Runner) Run(ctx context.Context) error {
	if !r.mu.TryLock() {
		return ErrAlreadyRunning
	}
	defer r.mu.Unlock()

	runID := uuid.NewString()[:8]
	if err := r.run(ctx, runID); err != nil {
		log.Printf("[run %s] failed: %v", runID, err)
		r.reporter.Capture(err)
		return err
	}
	return nil
}

func (r *Runner) run(ctx context.Context, runID string) error {
	// 1. Scrape the whole catalog (retried; structural failures abort).
	result, err := retry.Do("catalog scrape", r.attempts, r.delay, r.reporter.Capture, func() (*scrape.Result, error) {
		return r.catalog.Scrape(ctx)
	})
	if err != nil {
		return err
	}
	if result.FailedSources > 0 {
		log.Printf("[run %s] %d source(s) failed; proceeding with partial catalog", runID, result.FailedSources)
	}

	// 2. Prior snapshot, needed before image dedup can compare hashes.
	oldItems, err := r.store.Read()
	if err != nil {
		return err
	}

	// 3. Resolve durable image references.
	currentItems, err := r.images.Process(ctx, result.Items, oldItems)
	if err != nil {
		return err
	}

	// 4. First sync: persist and stay quiet.
	if oldItems == nil {
		if err := r.store.Write(currentItems); err != nil {
			return err
		}
		log.Printf("[run %s] First sync successful! Writing to `%s`", runID, r.store.Path())
		return nil
	}

	// 5. Classify. Zero reportable changes can still hide suppressed
	// free-item churn, so the baseline is refreshed whenever the sets
	// differ; otherwise a vanished reward lingers in the snapshot and its
	// return would never read as created.
	changes := diff.Diff(oldItems, currentItems)
	if len(changes) == 0 {
		if !models.ItemSetsEqual(oldItems, currentItems) {
			if err := r.store.Write(currentItems); err != nil {
				return err
			}
		}
		log.Printf("[run %s] No shop updates detected.", runID)
		return nil
	}
	if err := notify.CheckSanity(len(changes)); err != nil {
		return err
	}
	log.Printf("[run %s] %d updates found.", runID, len(changes))

	// 6. Render, in classification order.
	groups := make([]notify.Group, 0, len(changes)+1)
	for _, change := range changes {
		groups = append(groups, notify.Render(change))
	}
	if diff.AnyImportant(changes) {
		groups = append(groups, notify.ChannelPing())
	}
	summary := notify.Summary(changes)

	if r.blocksLogPath != "" {
		r.logBlocks(runID, groups)
	}

	// 7. Post, one batch at a time.
	for _, chunk := range notify.Batch(groups, notify.BlockLimit) {
		_, err := retry.Do("slack post", r.attempts, r.delay, r.reporter.Capture, func() (struct{}, error) {
			return struct{}{}, r.poster.Post(ctx, summary, chunk)
		})
		if err != nil {
			return err
		}
	}

	// 8. Only now is the new baseline durable.
	if err := r.store.Write(currentItems); err != nil {
		return err
	}
	log.Printf("[run %s] Run completed!", runID)
	return nil
}

// logBlocks dumps the rendered block JSON for debugging. Best-effort: a
// failed dump never fails the run.
func (r *Runner) logBlocks(runID string, groups []notify.Group) {
	data, err := json.MarshalIndent(groups, "", "  ")
	if err == nil {
		err = os.WriteFile(r.blocksLogPath, data, 0o644)
	}
	if err != nil {
		log.Printf("[run %s] could not write blocks log: %v", runID, err)
	}
}
