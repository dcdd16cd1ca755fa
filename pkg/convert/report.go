package convert

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/chazz/pkg/domain"
)

// Report summarizes a batch run.
type Report struct {
	RunID    string                  `json:"run_id"`
	Started  time.Time               `json:"started"`
	Duration time.Duration           `json:"duration"`
	Written  []string                `json:"written"`
	Skipped  []string                `json:"skipped"`
	Failures []*domain.DocumentError `json:"-"`

	mu sync.Mutex
}

func newReport(runID string) *Report {
	return &Report{
		RunID:   runID,
		Started: time.Now(),
		Written: []string{},
		Skipped: []string{},
	}
}

func (r *Report) record(name string, outcome domain.Outcome, err *domain.DocumentError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch outcome {
	case domain.OutcomeWritten:
		r.Written = append(r.Written, name)
	case domain.OutcomeSkipped:
		r.Skipped = append(r.Skipped, name)
	case domain.OutcomeFailed:
		r.Failures = append(r.Failures, err)
	}
}

// finish sorts every list so reports do not depend on worker scheduling.
func (r *Report) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Duration = time.Since(r.Started)
	sort.Strings(r.Written)
	sort.Strings(r.Skipped)
	sort.Slice(r.Failures, func(i, j int) bool {
		return r.Failures[i].Name < r.Failures[j].Name
	})
}

// Total is the number of documents the run attempted.
func (r *Report) Total() int {
	return len(r.Written) + len(r.Skipped) + len(r.Failures)
}

// Err joins every per-document failure, or returns nil when all succeeded.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
