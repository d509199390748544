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

// Dominates checks if individual a dominates individual b: a is no worse on
// every objective and strictly better on at least one.
func Dominates(a, b *Candidate) bool {
	better := false
	for i := 0; i < len(a.Objectives); i++ {
		if a.Objectives[i] > b.Objectives[i] {
			return false
		}
		if a.Objectives[i] < b.Objectives[i] {
			better = true
		}
	}
	return better
}

// Sorter performs fast non-dominated sorting. The domination counters and
// dominated sets live in the sorter, not in the candidates, and are reset at
// the start of every Sort call so a single Sorter can be reused across
// generations without reallocating.
type Sorter struct {
	domCount  []int
	dominated [][]int
}

func (s *Sorter) reset(n int) {
	if cap(s.domCount) < n {
		s.domCount = make([]int, n)
	}
	s.domCount = s.domCount[:n]
	clear(s.domCount)

	if cap(s.dominated) < n {
		grown := make([][]int, n)
		copy(grown, s.dominated[:cap(s.dominated)])
		s.dominated = grown
	}
	s.dominated = s.dominated[:n]
	for i := range s.dominated {
		s.dominated[i] = s.dominated[i][:0]
	}
}

// Sort partitions pool into fronts in increasing rank order and sets the
// Rank of every candidate to the index of its front. Front 0 is the
// non-dominated set. An empty pool yields no fronts.
func (s *Sorter) Sort(pool []*Candidate) []Front {
	if len(pool) == 0 {
		return nil
	}
	s.reset(len(pool))

	// Calculate domination for each pair
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			if Dominates(pool[i], pool[j]) {
				s.dominated[i] = append(s.dominated[i], j)
				s.domCount[j]++
			} else if Dominates(pool[j], pool[i]) {
				s.dominated[j] = append(s.dominated[j], i)
				s.domCount[i]++
			}
		}
	}

	// Find first front
	var current []int
	for i := range pool {
		if s.domCount[i] == 0 {
			current = append(current, i)
		}
	}

	// Peel subsequent fronts
	var fronts []Front
	for rank := 0; len(current) > 0; rank++ {
		front := make(Front, len(current))
		var next []int
		for k, idx := range current {
			pool[idx].Rank = rank
			front[k] = pool[idx]
			for _, dominatedIdx := range s.dominated[idx] {
				s.domCount[dominatedIdx]--
				if s.domCount[dominatedIdx] == 0 {
					next = append(next, dominatedIdx)
				}
			}
		}
		fronts = append(fronts, front)
		current = next
	}

	return fronts
}

// NonDominatedSort performs non-dominated sorting on the population
func NonDominatedSort(population []*Candidate) []Front {
	var s Sorter
	return s.Sort(population)
}
