/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package algorithms

import (
	"math"
	"sort"
)

// CrowdingDistance calculates the crowding distance for every candidate in
// the front. The front itself is not reordered.
//
// A dimension where all members share the same value contributes nothing,
// not even the boundary infinities. A dimension with a non-finite range only
// marks its boundaries.
func CrowdingDistance(front Front) {
	n := len(front)
	if n == 0 {
		return
	}
	if n <= 2 {
		for _, c := range front {
			c.Distance = math.Inf(1)
		}
		return
	}

	for _, c := range front {
		c.Distance = 0
	}

	numObjectives := len(front[0].Objectives)
	order := make([]int, n)
	for m := 0; m < numObjectives; m++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return front[order[i]].Objectives[m] < front[order[j]].Objectives[m]
		})

		minVal := front[order[0]].Objectives[m]
		maxVal := front[order[n-1]].Objectives[m]
		objectiveRange := maxVal - minVal
		if objectiveRange == 0 {
			continue
		}

		front[order[0]].Distance = math.Inf(1)
		front[order[n-1]].Distance = math.Inf(1)
		if math.IsInf(objectiveRange, 0) || math.IsNaN(objectiveRange) {
			continue
		}

		for i := 1; i < n-1; i++ {
			prev := front[order[i-1]].Objectives[m]
			next := front[order[i+1]].Objectives[m]
			front[order[i]].Distance += (next - prev) / objectiveRange
		}
	}
}

// Normalizer handles objective value normalization
type Normalizer struct {
	min []float64
	max []float64
}

// NewNormalizer creates a normalizer for the given number of objectives
func NewNormalizer(min []float64, max []float64) *Normalizer {
	return &Normalizer{
		min: min,
		max: max,
	}
}

// NewNormalizerFor builds a normalizer from the per-objective extremes of
// the given candidates.
func NewNormalizerFor(candidates []*Candidate) *Normalizer {
	if len(candidates) == 0 {
		return NewNormalizer(nil, nil)
	}
	m := len(candidates[0].Objectives)
	minVals := make([]float64, m)
	maxVals := make([]float64, m)
	for i := 0; i < m; i++ {
		minVals[i] = math.Inf(1)
		maxVals[i] = math.Inf(-1)
	}
	for _, c := range candidates {
		for i, v := range c.Objectives {
			minVals[i] = math.Min(minVals[i], v)
			maxVals[i] = math.Max(maxVals[i], v)
		}
	}
	return NewNormalizer(minVals, maxVals)
}

// Normalize returns normalized objective values in [0,1]
func (n *Normalizer) Normalize(values []float64) []float64 {
	normalized := make([]float64, len(values))
	for i, val := range values {
		// Avoid division by zero
		if n.max[i] == n.min[i] {
			normalized[i] = 0
		} else {
			normalized[i] = (val - n.min[i]) / (n.max[i] - n.min[i])
		}
	}
	return normalized
}
