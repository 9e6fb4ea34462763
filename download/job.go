package download

import (
	"sync"

	"github.com/google/uuid"

	"librarium/catalog"
)

// Job is a queued or in-flight download. The bibliographic fields are
// copied verbatim from the originating catalog result at enqueue time and
// never change; only the status does, and only the worker loop writes it.
type Job struct {
	ID      string
	Author  string
	Series  string
	Title   string
	Format  string
	Size    string
	Mirrors []string

	mu     sync.Mutex
	status Status
}

func newJob(res catalog.Result) *Job {
	return &Job{
		ID:      uuid.NewString(),
		Author:  res.Author,
		Series:  res.Series,
		Title:   res.Title,
		Format:  res.Format,
		Size:    res.Size,
		Mirrors: res.Mirrors,
		status:  Status{Kind: StatusQueued},
	}
}

// Status returns a snapshot of the job's current state. Safe to call from
// any goroutine.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *Job) setStatus(s Status) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

// Result pairs a completed job with the temp file it produced. It is
// emitted exactly once per successful job; ownership of the file passes to
// the consumer (typically the library import).
type Result struct {
	Job      *Job
	FilePath string
}
