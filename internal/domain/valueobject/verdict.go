package valueobject

import "fmt"

// Verdict is the three-band outcome of a scan.
type Verdict struct {
	value string
}

var (
	VerdictLowRisk    = Verdict{value: "LOW_RISK"}
	VerdictMediumRisk = Verdict{value: "MEDIUM_RISK"}
	VerdictHighRisk   = Verdict{value: "HIGH_RISK"}
)

// Banding holds the percent thresholds that split scores into verdicts.
type Banding struct {
	// LowRiskMin is the lowest percent that is still low-risk.
	LowRiskMin int
	// HighRiskBelow is the percent under which a scan is high-risk.
	HighRiskBelow int
}

// DefaultBanding is the single tuning point for verdict thresholds.
var DefaultBanding = Banding{LowRiskMin: 75, HighRiskBelow: 40}

// VerdictFromString reconstructs a Verdict from its string representation.
func VerdictFromString(s string) (Verdict, error) {
	switch s {
	case "LOW_RISK":
		return VerdictLowRisk, nil
	case "MEDIUM_RISK":
		return VerdictMediumRisk, nil
	case "HIGH_RISK":
		return VerdictHighRisk, nil
	default:
		return Verdict{}, fmt.Errorf("invalid verdict: %s", s)
	}
}

// VerdictFromPercent bands a 0-100 percent using b.
func (b Banding) VerdictFromPercent(percent int) Verdict {
	switch {
	case percent >= b.LowRiskMin:
		return VerdictLowRisk
	case percent < b.HighRiskBelow:
		return VerdictHighRisk
	default:
		return VerdictMediumRisk
	}
}

// String returns the string representation.
func (v Verdict) String() string {
	return v.value
}

// Color returns the traffic-light name used by the web client.
func (v Verdict) Color() string {
	switch v.value {
	case "LOW_RISK":
		return "green"
	case "MEDIUM_RISK":
		return "orange"
	case "HIGH_RISK":
		return "red"
	default:
		return ""
	}
}

// IsZero returns true if the Verdict has not been set.
func (v Verdict) IsZero() bool {
	return v.value == ""
}

// Equal checks equality with another Verdict.
func (v Verdict) Equal(other Verdict) bool {
	return v.value == other.value
}
