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
	"golang.org/x/exp/rand"
)

// DefaultTournamentSize is the binary tournament.
const DefaultTournamentSize = 2

// Better is the crowded-comparison operator: x is preferred over y when it
// has a lower rank, or the same rank and a larger crowding distance.
// Neither is preferred when rank and distance are equal.
func Better(x, y *Candidate) bool {
	return x.Rank < y.Rank || (x.Rank == y.Rank && x.Distance > y.Distance)
}

// CrowdedCompare orders candidates by Better, for use with sort functions.
func CrowdedCompare(x, y *Candidate) int {
	switch {
	case Better(x, y):
		return -1
	case Better(y, x):
		return 1
	default:
		return 0
	}
}

// TournamentSelect draws k candidates uniformly with replacement and returns
// the best one. On a tie the earliest drawn wins.
func TournamentSelect(population Population, k int, rng *rand.Rand) *Candidate {
	if k < 1 {
		k = DefaultTournamentSize
	}
	best := population[rng.Intn(len(population))]
	for i := 1; i < k; i++ {
		contestant := population[rng.Intn(len(population))]
		if Better(contestant, best) {
			best = contestant
		}
	}
	return best
}

// SelectMatingPool runs n tournaments over population. Ranks and distances
// must already be assigned; they are not modified.
func SelectMatingPool(population Population, n, k int, rng *rand.Rand) Population {
	pool := make(Population, n)
	for i := range pool {
		pool[i] = TournamentSelect(population, k, rng)
	}
	return pool
}
