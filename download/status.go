package download

import "strconv"

// StatusKind enumerates the download job states.
type StatusKind int

const (
	// StatusQueued means the job is waiting in the queue.
	StatusQueued StatusKind = iota

	// StatusStarting means a mirror attempt has begun. It recurs once per
	// mirror when falling back.
	StatusStarting

	// StatusInProgress means bytes are being transferred; Status.Percent
	// carries the integer progress.
	StatusInProgress

	// StatusSuccess means the file was downloaded. Terminal.
	StatusSuccess

	// StatusError means every mirror and candidate was exhausted. Terminal.
	StatusError
)

// Status is the tagged state of a job. Percent is meaningful only while
// Kind is StatusInProgress.
type Status struct {
	Kind    StatusKind
	Percent int
}

// String renders the status the way the UI shows it: "Queued", "Starting",
// "42%", "Success" or "Error".
func (s Status) String() string {
	switch s.Kind {
	case StatusQueued:
		return "Queued"
	case StatusStarting:
		return "Starting"
	case StatusInProgress:
		return strconv.Itoa(s.Percent) + "%"
	case StatusSuccess:
		return "Success"
	case StatusError:
		return "Error"
	}
	return "Unknown"
}

// Terminal reports whether no further transitions can happen.
func (s Status) Terminal() bool {
	return s.Kind == StatusSuccess || s.Kind == StatusError
}
