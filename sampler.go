package main

import (
	"math/rand"
	"strings"
)

// SampleColumnValues selects representative values for a column prompt: the
// first firstSampleCount non-missing values plus up to randomSampleCount
// picks from a seeded RNG, deduplicated in first-seen order and capped at
// sampleCap. The seed is explicit so the same column always yields the same
// sample across runs.
func SampleColumnValues(values []string, seed int64) []string {
	present := nonMissing(values)
	if len(present) == 0 {
		return nil
	}

	var candidates []string
	for i := 0; i < firstSampleCount && i < len(present); i++ {
		candidates = append(candidates, present[i])
	}
	rng := rand.New(rand.NewSource(seed))
	picks := randomSampleCount
	if picks > len(present) {
		picks = len(present)
	}
	for i := 0; i < picks; i++ {
		candidates = append(candidates, present[rng.Intn(len(present))])
	}

	seen := make(map[string]bool, len(candidates))
	var sample []string
	for _, v := range candidates {
		v = strings.TrimSpace(v)
		if seen[v] {
			continue
		}
		seen[v] = true
		sample = append(sample, v)
		if len(sample) == sampleCap {
			break
		}
	}
	return sample
}
