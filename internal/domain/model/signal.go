package model

import "github.com/ledgerguard/riskscan/internal/domain/valueobject"

// Signal is one weighted pass/fail observation that feeds the score.
type Signal struct {
	Key    string `json:"key"`
	Detail string `json:"detail,omitempty"`
	Weight int    `json:"weight"`
	Passed bool   `json:"passed"`
}

// NewSignal builds a Signal. Negative weights are clamped to zero.
func NewSignal(key string, passed bool, weight int, detail string) Signal {
	if weight < 0 {
		weight = 0
	}
	return Signal{Key: key, Passed: passed, Weight: weight, Detail: detail}
}

// ScoreResult is the reduction of a signal list to a percent and verdict.
type ScoreResult struct {
	Verdict valueobject.Verdict
	Signals []Signal
	Percent int
}
