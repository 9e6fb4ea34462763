package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"librarium/catalog"
)

// chunkSize is the copy buffer used while streaming file bytes; progress is
// reported at most once per chunk.
const chunkSize = 8192

// Resolver turns a fetched mirror page into the direct file URLs it
// advertises, in attempt order. catalog.MirrorParser is the production
// implementation.
type Resolver interface {
	Resolve(pageURL string, body io.Reader) ([]string, error)
}

// Config controls engine timeouts and temp file placement.
type Config struct {
	// PageTimeout bounds the whole mirror-page fetch. Generous: mirror
	// pages are small but the hosts are slow.
	PageTimeout time.Duration

	// HeaderTimeout bounds how long a file server may take to start
	// responding. The body transfer itself is only bounded by ctx.
	HeaderTimeout time.Duration

	// TempDir receives the downloaded files; empty means the OS default.
	TempDir string
}

// Engine owns the job queue and the single worker loop that drains it.
// Enqueue may be called from any goroutine; the observer callbacks all fire
// on the worker goroutine.
type Engine struct {
	cfg      Config
	resolver Resolver
	log      zerolog.Logger

	queue      *queue
	pending    atomic.Int32
	pageClient *http.Client
	fileClient *http.Client

	// OnJobQueued fires after Enqueue has appended the job.
	OnJobQueued func(*Job)
	// OnStatusChanged fires after every status transition.
	OnStatusChanged func(*Job)
	// OnComplete fires exactly once per successful job.
	OnComplete func(Result)
}

// New builds an Engine. The resolver must not be nil.
func New(cfg Config, resolver Resolver, logger zerolog.Logger) *Engine {
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 5 * time.Minute
	}
	if cfg.HeaderTimeout <= 0 {
		cfg.HeaderTimeout = 30 * time.Second
	}
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		log:      logger,
		queue:    newQueue(),
		pageClient: &http.Client{
			Timeout: cfg.PageTimeout,
		},
		fileClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.HeaderTimeout,
				Proxy:                 http.ProxyFromEnvironment,
			},
		},
	}
}

// Enqueue creates a job from a catalog result and queues it for the worker.
// It returns immediately; no network I/O happens on the caller's goroutine.
func (e *Engine) Enqueue(res catalog.Result) *Job {
	job := newJob(res)
	if e.queue.push(job) {
		e.pending.Add(1)
	}
	e.log.Info().Str("id", job.ID).Str("title", job.Title).Msg("job queued")
	if e.OnJobQueued != nil {
		e.OnJobQueued(job)
	}
	return job
}

// QueueSize reports jobs not yet completed, including the one in flight.
// The count drops only once a job reaches a terminal status, so a popped
// but still running job is never invisible.
func (e *Engine) QueueSize() int {
	return int(e.pending.Load())
}

// Run drains the queue until ctx is cancelled, downloading one job at a
// time. It blocks; run it on a dedicated goroutine.
func (e *Engine) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		e.queue.close()
	}()

	for {
		job, ok := e.queue.pop()
		if !ok {
			e.log.Info().Msg("download worker stopped")
			return
		}
		if ctx.Err() != nil {
			// Shutdown raced the pop; the job never started, so it keeps
			// its Queued status.
			e.log.Info().Msg("download worker stopped")
			return
		}
		path, ok := e.download(ctx, job)
		e.pending.Add(-1)
		if !ok {
			continue
		}
		if e.OnComplete != nil {
			e.OnComplete(Result{Job: job, FilePath: path})
		}
	}
}

// download attempts the job's mirrors in order and returns the temp file
// path of the first successful fetch.
func (e *Engine) download(ctx context.Context, job *Job) (string, bool) {
	e.log.Info().Str("title", job.Title).Msg("downloading")

	for _, mirror := range job.Mirrors {
		if ctx.Err() != nil {
			break
		}

		e.setStatus(job, Status{Kind: StatusStarting})
		e.log.Info().Str("mirror", mirror).Msg("trying mirror")

		candidates, err := e.resolveMirror(ctx, mirror)
		if err != nil {
			e.log.Info().Err(err).Str("mirror", mirror).Msg("mirror resolution failed")
			continue
		}

		for _, candidate := range candidates {
			if ctx.Err() != nil {
				break
			}
			path, err := e.fetchFile(ctx, job, candidate)
			if err != nil {
				e.log.Info().Err(err).Str("url", candidate).Msg("candidate failed")
				continue
			}

			e.log.Info().Str("title", job.Title).Str("path", path).Msg("downloaded")
			e.setStatus(job, Status{Kind: StatusSuccess})
			return path, true
		}
	}

	e.log.Info().Str("title", job.Title).Msg("failed to download")
	e.setStatus(job, Status{Kind: StatusError})
	return "", false
}

// resolveMirror fetches one mirror page and asks the resolver for the
// direct file URLs behind it.
func (e *Engine) resolveMirror(ctx context.Context, mirror string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", mirror, err)
	}
	resp, err := e.pageClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror page request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			e.log.Warn().Err(cerr).Msg("failed to close mirror page body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror page returned status %s", resp.Status)
	}
	return e.resolver.Resolve(mirror, resp.Body)
}

// fetchFile streams one candidate URL into a temp file, updating the job's
// percentage status per chunk.
func (e *Engine) fetchFile(ctx context.Context, job *Job, fileURL string) (string, error) {
	e.log.Info().Str("url", fileURL).Msg("fetching file")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", fileURL, err)
	}
	resp, err := e.fileClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("file request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			e.log.Warn().Err(cerr).Msg("failed to close file body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file request returned status %s", resp.Status)
	}

	total := resp.ContentLength
	if total <= 0 {
		// No length means no progress reporting, and usually an error page
		// rather than a file.
		return "", fmt.Errorf("zero content length from %s", fileURL)
	}
	e.log.Info().Int64("bytes", total).Msg("streaming file")

	tmp, err := os.CreateTemp(e.cfg.TempDir, "librarium-*."+strings.ToLower(job.Format))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	pw := newProgressWriter(tmp, total, func(percent int) {
		e.setStatus(job, Status{Kind: StatusInProgress, Percent: percent})
	})
	_, copyErr := io.CopyBuffer(pw, resp.Body, make([]byte, chunkSize))

	if cerr := tmp.Close(); cerr != nil && copyErr == nil {
		copyErr = cerr
	}
	if copyErr != nil {
		if rerr := os.Remove(tmp.Name()); rerr != nil {
			e.log.Warn().Err(rerr).Str("path", tmp.Name()).Msg("failed to remove partial file")
		}
		return "", fmt.Errorf("streaming from %s failed: %w", fileURL, copyErr)
	}
	return tmp.Name(), nil
}

func (e *Engine) setStatus(job *Job, s Status) {
	job.setStatus(s)
	if e.OnStatusChanged != nil {
		e.OnStatusChanged(job)
	}
}
