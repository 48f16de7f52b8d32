package service

import (
	"math"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// Scorer reduces a signal list to a percent and a verdict.
type Scorer struct {
	banding valueobject.Banding
}

// NewScorer creates a Scorer using valueobject.DefaultBanding.
func NewScorer() *Scorer {
	return &Scorer{banding: valueobject.DefaultBanding}
}

// NewScorerWithBanding creates a Scorer with explicit thresholds.
func NewScorerWithBanding(b valueobject.Banding) *Scorer {
	return &Scorer{banding: b}
}

// Score computes round(100 * passed weight / total weight). A zero total
// scores 0. Signal order is kept as given.
func (s *Scorer) Score(signals []model.Signal) model.ScoreResult {
	total, passed := 0, 0
	for _, sig := range signals {
		total += sig.Weight
		if sig.Passed {
			passed += sig.Weight
		}
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(100 * float64(passed) / float64(total)))
	}

	out := make([]model.Signal, len(signals))
	copy(out, signals)

	return model.ScoreResult{
		Verdict: s.banding.VerdictFromPercent(percent),
		Percent: percent,
		Signals: out,
	}
}
