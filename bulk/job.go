package bulk

import (
	"math"
	"time"

	"github.com/abuharish02/Lead-gen-ai-backend/analyzer"
)

// Item and job statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Item tracks one URL inside a bulk job.
type Item struct {
	URL    string                   `json:"url"`
	Status string                   `json:"status"`
	Result *analyzer.AnalysisRecord `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// Job is the persisted state of one bulk analysis run.
type Job struct {
	ID         string     `json:"job_id"`
	Status     string     `json:"status"`
	TotalURLs  int        `json:"total_urls"`
	Completed  int        `json:"completed"`
	Failed     int        `json:"failed"`
	Items      []Item     `json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Progress returns percent of URLs settled (completed or failed), rounded
// to one decimal place.
func (j *Job) Progress() float64 {
	if j.TotalURLs == 0 {
		return 0
	}
	p := float64(j.Completed+j.Failed) / float64(j.TotalURLs) * 100
	return math.Round(p*10) / 10
}

// Done reports whether every URL has settled.
func (j *Job) Done() bool {
	return j.Completed+j.Failed >= j.TotalURLs
}

// Results returns the analysis records of completed items, in submission
// order.
func (j *Job) Results() []*analyzer.AnalysisRecord {
	out := make([]*analyzer.AnalysisRecord, 0, j.Completed)
	for _, it := range j.Items {
		if it.Status == StatusCompleted && it.Result != nil {
			out = append(out, it.Result)
		}
	}
	return out
}

// StatusReport is the wire representation returned by the status endpoint.
type StatusReport struct {
	JobID      string     `json:"job_id"`
	Status     string     `json:"status"`
	TotalURLs  int        `json:"total_urls"`
	Completed  int        `json:"completed"`
	Failed     int        `json:"failed"`
	Progress   float64    `json:"progress"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (j *Job) Report() StatusReport {
	return StatusReport{
		JobID:      j.ID,
		Status:     j.Status,
		TotalURLs:  j.TotalURLs,
		Completed:  j.Completed,
		Failed:     j.Failed,
		Progress:   j.Progress(),
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}
}

// clone deep-copies job state so readers never alias coordinator-owned
// memory.
func (j *Job) clone() *Job {
	cp := *j
	cp.Items = make([]Item, len(j.Items))
	copy(cp.Items, j.Items)
	return &cp
}
