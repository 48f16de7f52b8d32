package valueobject

// ProbeOutcome classifies a manifest probe.
type ProbeOutcome int

const (
	ProbeNotAttempted ProbeOutcome = iota
	ProbeFound
	ProbeNotFound
	ProbeError
)

// String returns the string representation.
func (o ProbeOutcome) String() string {
	switch o {
	case ProbeFound:
		return "found"
	case ProbeNotFound:
		return "not_found"
	case ProbeError:
		return "probe_error"
	default:
		return "not_attempted"
	}
}

// ProbeResult records how a well-known manifest check ended. NotFound means
// the host answered with a non-2xx status; ProbeError means no answer at all
// (DNS, TLS, timeout). Both count as "not found" for scoring.
type ProbeResult struct {
	URL        string
	Reason     string
	Outcome    ProbeOutcome
	StatusCode int
	Attempts   int
}

// Found collapses the outcome to the boolean used by signals.
func (r ProbeResult) Found() bool {
	return r.Outcome == ProbeFound
}
