package bulk

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abuharish02/Lead-gen-ai-backend/analyzer"
	"go.uber.org/zap"
)

func waitForJob(t *testing.T, c *Coordinator, id string) *Job {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("job did not finish in time")
		default:
		}
		job, err := c.Job(id)
		if err != nil {
			t.Fatalf("job lookup failed: %v", err)
		}
		if job.Status == StatusCompleted {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubmitValidation(t *testing.T) {
	c := NewCoordinator(nil, NewMemoryStore(), zap.NewNop())

	if _, err := c.Submit(context.Background(), nil); !errors.Is(err, ErrNoURLs) {
		t.Errorf("expected ErrNoURLs, got %v", err)
	}

	urls := make([]string, DefaultMaxURLs+1)
	for i := range urls {
		urls[i] = "example.test"
	}
	if _, err := c.Submit(context.Background(), urls); !errors.Is(err, ErrTooManyURLs) {
		t.Errorf("expected ErrTooManyURLs, got %v", err)
	}
}

func TestSubmitDropsBlankURLs(t *testing.T) {
	analyze := func(_ context.Context, url string) (*analyzer.AnalysisRecord, error) {
		return &analyzer.AnalysisRecord{URL: url}, nil
	}
	c := NewCoordinator(analyze, NewMemoryStore(), zap.NewNop())

	job, err := c.Submit(context.Background(), []string{"acme.test", "   ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.TotalURLs != 1 {
		t.Fatalf("blank entries should be dropped, got %d urls", job.TotalURLs)
	}

	done := waitForJob(t, c, job.ID)
	if done.Completed != 1 || done.Failed != 0 {
		t.Errorf("expected 1 completed / 0 failed, got %d / %d", done.Completed, done.Failed)
	}

	if _, err := c.Submit(context.Background(), []string{" ", "\t"}); !errors.Is(err, ErrNoURLs) {
		t.Errorf("all-blank list should be rejected, got %v", err)
	}
}

func TestLookupWithoutStore(t *testing.T) {
	c := NewCoordinator(nil, nil, zap.NewNop())
	if _, err := c.Status("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitNormalizesURLs(t *testing.T) {
	analyze := func(_ context.Context, url string) (*analyzer.AnalysisRecord, error) {
		return &analyzer.AnalysisRecord{URL: url}, nil
	}
	c := NewCoordinator(analyze, NewMemoryStore(), zap.NewNop())

	job, err := c.Submit(context.Background(), []string{"acme.test", "http://plain.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Items[0].URL != "https://acme.test" {
		t.Errorf("bare host not normalized: %q", job.Items[0].URL)
	}
	if job.Items[1].URL != "http://plain.test" {
		t.Errorf("explicit scheme must be preserved: %q", job.Items[1].URL)
	}
	waitForJob(t, c, job.ID)
}

func TestBulkFanOut(t *testing.T) {
	var calls atomic.Int32
	analyze := func(_ context.Context, url string) (*analyzer.AnalysisRecord, error) {
		calls.Add(1)
		return &analyzer.AnalysisRecord{URL: url, CompanyName: "ok"}, nil
	}
	c := NewCoordinator(analyze, NewMemoryStore(), zap.NewNop(), WithBatchSize(3))

	urls := []string{"a.test", "b.test", "c.test", "d.test", "e.test", "f.test", "g.test"}
	job, err := c.Submit(context.Background(), urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := waitForJob(t, c, job.ID)

	if int(calls.Load()) != len(urls) {
		t.Errorf("expected %d analyses, got %d", len(urls), calls.Load())
	}
	if done.Completed != len(urls) || done.Failed != 0 {
		t.Errorf("counters wrong: completed=%d failed=%d", done.Completed, done.Failed)
	}
	if got := done.Progress(); got != 100 {
		t.Errorf("expected 100%% progress, got %v", got)
	}
	if results := done.Results(); len(results) != len(urls) {
		t.Errorf("expected %d results, got %d", len(urls), len(results))
	}
	if done.StartedAt == nil || done.FinishedAt == nil {
		t.Error("timestamps not recorded")
	}
}

func TestBulkFailureIsolation(t *testing.T) {
	analyze := func(_ context.Context, url string) (*analyzer.AnalysisRecord, error) {
		if strings.Contains(url, "bad") {
			return nil, errors.New("scrape failed")
		}
		return &analyzer.AnalysisRecord{URL: url}, nil
	}
	c := NewCoordinator(analyze, NewMemoryStore(), zap.NewNop())

	job, err := c.Submit(context.Background(), []string{"a.test", "bad.test", "c.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := waitForJob(t, c, job.ID)

	if done.Completed != 2 || done.Failed != 1 {
		t.Fatalf("expected 2 completed and 1 failed, got %d/%d", done.Completed, done.Failed)
	}
	for _, item := range done.Items {
		if strings.Contains(item.URL, "bad") {
			if item.Status != StatusFailed || item.Error == "" {
				t.Errorf("failed item not recorded: %+v", item)
			}
		} else if item.Status != StatusCompleted {
			t.Errorf("healthy item affected by neighbor failure: %+v", item)
		}
	}
	if len(done.Results()) != 2 {
		t.Errorf("expected 2 results, got %d", len(done.Results()))
	}
}

func TestBulkPanicIsolation(t *testing.T) {
	analyze := func(_ context.Context, url string) (*analyzer.AnalysisRecord, error) {
		if strings.Contains(url, "boom") {
			panic("unexpected state")
		}
		return &analyzer.AnalysisRecord{URL: url}, nil
	}
	c := NewCoordinator(analyze, NewMemoryStore(), zap.NewNop())

	job, err := c.Submit(context.Background(), []string{"ok.test", "boom.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := waitForJob(t, c, job.ID)

	if done.Completed != 1 || done.Failed != 1 {
		t.Fatalf("panic not contained: completed=%d failed=%d", done.Completed, done.Failed)
	}
}

func TestBulkBatchSizeLimitsConcurrency(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0
	analyze := func(_ context.Context, url string) (*analyzer.AnalysisRecord, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return &analyzer.AnalysisRecord{URL: url}, nil
	}
	c := NewCoordinator(analyze, NewMemoryStore(), zap.NewNop(), WithBatchSize(2))

	urls := []string{"a.test", "b.test", "c.test", "d.test", "e.test"}
	job, err := c.Submit(context.Background(), urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForJob(t, c, job.ID)

	if peak > 2 {
		t.Errorf("concurrency exceeded batch size: peak %d", peak)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	c := NewCoordinator(nil, NewMemoryStore(), zap.NewNop())
	if _, err := c.Status("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProgressRounding(t *testing.T) {
	job := &Job{TotalURLs: 3, Completed: 1}
	if got := job.Progress(); got != 33.3 {
		t.Errorf("expected 33.3, got %v", got)
	}
	job.Failed = 1
	if got := job.Progress(); got != 66.7 {
		t.Errorf("expected 66.7, got %v", got)
	}
	empty := &Job{}
	if got := empty.Progress(); got != 0 {
		t.Errorf("expected 0 for empty job, got %v", got)
	}
}
