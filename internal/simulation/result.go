package simulation

import "time"

// Counts maps a classical bit-string outcome to the number of shots that
// produced it. Bit strings follow the Qiskit convention: qubit 0 is the
// rightmost character.
type Counts map[string]int

// TotalShots returns the sum of all outcome counts.
func (c Counts) TotalShots() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Probabilities converts outcome counts to observed probabilities.
func (c Counts) Probabilities() map[string]float64 {
	total := c.TotalShots()
	probs := make(map[string]float64, len(c))
	if total == 0 {
		return probs
	}
	for outcome, n := range c {
		probs[outcome] = float64(n) / float64(total)
	}
	return probs
}

// MostFrequent returns the outcome with the highest count, or "" for empty
// counts.
func (c Counts) MostFrequent() string {
	best := ""
	bestCount := 0
	for outcome, n := range c {
		if n > bestCount || (n == bestCount && (best == "" || outcome < best)) {
			best = outcome
			bestCount = n
		}
	}
	return best
}

// Result is the outcome of one simulation run.
type Result struct {
	Counts      Counts        `json:"counts"`
	Shots       int           `json:"shots"`
	Backend     string        `json:"backend"`
	Fingerprint string        `json:"fingerprint"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}
