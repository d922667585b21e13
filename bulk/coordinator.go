package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abuharish02/Lead-gen-ai-backend/analyzer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBatchSize caps how many URLs are analyzed concurrently.
	DefaultBatchSize = 5
	// DefaultMaxURLs caps how many URLs one job may carry.
	DefaultMaxURLs = 500
)

var (
	ErrNoURLs      = errors.New("bulk: no urls submitted")
	ErrTooManyURLs = errors.New("bulk: too many urls submitted")
)

// AnalyzeFunc analyzes one URL. Failures are per-URL: an error marks that
// item failed without touching the rest of the job.
type AnalyzeFunc func(ctx context.Context, url string) (*analyzer.AnalysisRecord, error)

// Coordinator fans bulk jobs out over the analyzer in fixed-size
// concurrent sub-batches and tracks per-URL outcomes.
type Coordinator struct {
	analyze   AnalyzeFunc
	store     Store
	logger    *zap.Logger
	batchSize int
	maxURLs   int

	mu   sync.Mutex
	jobs map[string]*Job
}

type CoordinatorOption func(*Coordinator)

func WithBatchSize(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

func WithMaxURLs(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxURLs = n
		}
	}
}

// NewCoordinator wires a coordinator. store may be a MemoryStore or a
// BoltStore; snapshots are persisted after every item settles.
func NewCoordinator(analyze AnalyzeFunc, store Store, logger *zap.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		analyze:   analyze,
		store:     store,
		logger:    logger,
		batchSize: DefaultBatchSize,
		maxURLs:   DefaultMaxURLs,
		jobs:      make(map[string]*Job),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates and registers a job, then starts processing it in the
// background. The returned job is the pending snapshot.
func (c *Coordinator) Submit(ctx context.Context, urls []string) (*Job, error) {
	valid := make([]string, 0, len(urls))
	for _, raw := range urls {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		valid = append(valid, NormalizeURL(raw))
	}
	if len(valid) == 0 {
		return nil, ErrNoURLs
	}
	if len(valid) > c.maxURLs {
		return nil, fmt.Errorf("%w (max %d)", ErrTooManyURLs, c.maxURLs)
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		TotalURLs: len(valid),
		Items:     make([]Item, len(valid)),
		CreatedAt: time.Now().UTC(),
	}
	for i, u := range valid {
		job.Items[i] = Item{URL: u, Status: StatusPending}
	}

	c.mu.Lock()
	c.jobs[job.ID] = job
	c.mu.Unlock()
	if err := c.persist(job); err != nil {
		return nil, err
	}

	c.logger.Info("bulk job submitted",
		zap.String("job_id", job.ID),
		zap.Int("urls", job.TotalURLs))

	go c.run(context.WithoutCancel(ctx), job.ID)
	return job.clone(), nil
}

// Status returns the progress snapshot for a job.
func (c *Coordinator) Status(id string) (StatusReport, error) {
	job, err := c.lookup(id)
	if err != nil {
		return StatusReport{}, err
	}
	return job.Report(), nil
}

// Job returns the full job including per-URL items and results.
func (c *Coordinator) Job(id string) (*Job, error) {
	return c.lookup(id)
}

func (c *Coordinator) lookup(id string) (*Job, error) {
	c.mu.Lock()
	job, ok := c.jobs[id]
	if ok {
		cp := job.clone()
		c.mu.Unlock()
		return cp, nil
	}
	c.mu.Unlock()
	if c.store == nil {
		return nil, ErrNotFound
	}
	// fall back to the store for jobs persisted by a previous run
	return c.store.Get(id)
}

func (c *Coordinator) run(ctx context.Context, id string) {
	c.mu.Lock()
	job, ok := c.jobs[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	now := time.Now().UTC()
	job.Status = StatusProcessing
	job.StartedAt = &now
	c.mu.Unlock()
	c.persistSnapshot(id)

	for start := 0; start < len(job.Items); start += c.batchSize {
		end := start + c.batchSize
		if end > len(job.Items) {
			end = len(job.Items)
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.processItem(ctx, id, i)
			}()
		}
		wg.Wait()
	}

	c.mu.Lock()
	job.Status = StatusCompleted
	done := time.Now().UTC()
	job.FinishedAt = &done
	completed, failed := job.Completed, job.Failed
	c.mu.Unlock()
	c.persistSnapshot(id)

	c.logger.Info("bulk job finished",
		zap.String("job_id", id),
		zap.Int("completed", completed),
		zap.Int("failed", failed))
}

// processItem analyzes one URL and records the outcome. A panic inside the
// analyzer fails the item, not the job.
func (c *Coordinator) processItem(ctx context.Context, id string, idx int) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("analysis panicked",
				zap.String("job_id", id),
				zap.Int("item", idx),
				zap.Any("panic", r))
			c.settle(id, idx, nil, fmt.Errorf("internal error: %v", r))
		}
	}()

	c.mu.Lock()
	job := c.jobs[id]
	job.Items[idx].Status = StatusProcessing
	url := job.Items[idx].URL
	c.mu.Unlock()

	rec, err := c.analyze(ctx, url)
	c.settle(id, idx, rec, err)
}

func (c *Coordinator) settle(id string, idx int, rec *analyzer.AnalysisRecord, err error) {
	c.mu.Lock()
	job := c.jobs[id]
	item := &job.Items[idx]
	if err != nil {
		item.Status = StatusFailed
		item.Error = err.Error()
		job.Failed++
		c.logger.Warn("bulk url failed",
			zap.String("job_id", id),
			zap.String("url", item.URL),
			zap.Error(err))
	} else {
		item.Status = StatusCompleted
		item.Result = rec
		job.Completed++
	}
	c.mu.Unlock()
	c.persistSnapshot(id)
}

// persistSnapshot snapshots the job under the mutex and writes it outside.
func (c *Coordinator) persistSnapshot(id string) {
	c.mu.Lock()
	job, ok := c.jobs[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	snapshot := job.clone()
	c.mu.Unlock()
	if err := c.persist(snapshot); err != nil {
		c.logger.Error("failed to persist job", zap.String("job_id", id), zap.Error(err))
	}
}

func (c *Coordinator) persist(job *Job) error {
	if c.store == nil {
		return nil
	}
	return c.store.Put(job)
}
