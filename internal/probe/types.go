package probe

import "time"

// Status classifies the outcome of one probe attempt.
type Status int

const (
	StatusSuccess Status = iota // reply under the slow threshold
	StatusSlow                  // reply at or above the slow threshold
	StatusFail                  // no reply
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSlow:
		return "slow"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Classify maps a round-trip time to a status given the slow threshold.
func Classify(rtt, slowThreshold time.Duration) Status {
	if rtt >= slowThreshold {
		return StatusSlow
	}
	return StatusSuccess
}

// Event is one message on the orchestrator's result channel: either a single
// probe observation, or a completion marker (Done=true) emitted once per host
// after its final attempt.
//
// Index identifies the host by its position in the run's host list, so
// duplicate host tokens keep separate histories.
type Event struct {
	Index  int
	Host   string
	Seq    int // 1-based attempt index, 0 on completion markers
	Status Status
	RTT    time.Duration // zero when Status is StatusFail
	Done   bool
}

// Stats holds running per-host counters for the end-of-run summary.
type Stats struct {
	Success int
	Slow    int
	Fail    int
	Total   int
}

// Record applies one observation to the counters.
func (s *Stats) Record(status Status) {
	switch status {
	case StatusSuccess:
		s.Success++
	case StatusSlow:
		s.Slow++
	case StatusFail:
		s.Fail++
	}
	s.Total++
}
