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

package framework

import (
	"sort"

	"golang.org/x/exp/rand"
)

// CrossoverFunc represents a crossover operation on integer chromosomes
type CrossoverFunc func(parent1, parent2 []int, rng *rand.Rand) (child1, child2 []int)

// Standard Crossover Operators

// OnePointCrossover creates offspring by selecting a random cut point
func OnePointCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	point := rng.Intn(len(p1))

	copy(child1[:point], p1[:point])
	copy(child2[:point], p2[:point])
	copy(child1[point:], p2[point:])
	copy(child2[point:], p1[point:])

	return child1, child2
}

// TwoPointCrossover creates offspring using two random cut points
func TwoPointCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	point1 := rng.Intn(len(p1))
	point2 := rng.Intn(len(p1))
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	for i := 0; i < len(p1); i++ {
		if i < point1 || i >= point2 {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}

	return child1, child2
}

// UniformCrossover creates offspring by randomly selecting from each parent
func UniformCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	for i := range p1 {
		if rng.Float64() < 0.5 {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}

	return child1, child2
}

// KPointCrossover returns a k-point crossover. k is capped at len-1 cut points.
func KPointCrossover(k int) CrossoverFunc {
	return func(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
		child1 := make([]int, len(p1))
		child2 := make([]int, len(p2))
		if len(p1) < 2 {
			copy(child1, p1)
			copy(child2, p2)
			return child1, child2
		}
		cuts := min(k, len(p1)-1)

		// unique cut points in [1, len-1]
		points := make([]int, 0, cuts+2)
		points = append(points, 0)
		used := make(map[int]bool, cuts)
		for len(points) < cuts+1 {
			point := 1 + rng.Intn(len(p1)-1)
			if used[point] {
				continue
			}
			used[point] = true
			points = append(points, point)
		}
		points = append(points, len(p1))
		sort.Ints(points)

		swap := false
		for i := 0; i < len(points)-1; i++ {
			for j := points[i]; j < points[i+1]; j++ {
				if swap {
					child1[j] = p2[j]
					child2[j] = p1[j]
				} else {
					child1[j] = p1[j]
					child2[j] = p2[j]
				}
			}
			swap = !swap
		}

		return child1, child2
	}
}

// GroupAwareCrossover keeps genes that share a value in the first parent
// together: every group of positions holding the same value in p1 is
// inherited as a unit from one parent. For assignment encodings this keeps
// items placed in the same bin together.
func GroupAwareCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	groups := make(map[int][]int)
	var keys []int
	for pos, value := range p1 {
		if _, ok := groups[value]; !ok {
			keys = append(keys, value)
		}
		groups[value] = append(groups[value], pos)
	}
	// map order is random; keep RNG consumption reproducible
	sort.Ints(keys)

	for _, key := range keys {
		fromFirst := rng.Float64() < 0.5
		for _, pos := range groups[key] {
			if fromFirst {
				child1[pos] = p1[pos]
				child2[pos] = p2[pos]
			} else {
				child1[pos] = p2[pos]
				child2[pos] = p1[pos]
			}
		}
	}

	return child1, child2
}
