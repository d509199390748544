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
	"fmt"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// GetParetoFront extracts the Pareto front (first non-dominated front) from a population.
// Repeated objective vectors are reported once.
// The candidates of population keep their rank and distance.
func GetParetoFront(population Population) []framework.ObjectiveSpacePoint {
	if len(population) == 0 {
		return nil
	}

	shadow := make(Population, len(population))
	for i, c := range population {
		cp := *c
		shadow[i] = &cp
	}

	fronts := NonDominatedSort(shadow)
	if len(fronts) == 0 || len(fronts[0]) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fronts[0]))
	points := make([]framework.ObjectiveSpacePoint, 0, len(fronts[0]))
	for _, c := range fronts[0] {
		key := objectiveKey(c.Objectives)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		points = append(points, c.Objectives)
	}
	return points
}

func objectiveKey(point framework.ObjectiveSpacePoint) string {
	return fmt.Sprint([]float64(point))
}

// FromPoints wraps bare objective vectors into candidates so they can be
// ranked, e.g. to filter a sampled reference front.
func FromPoints(points []framework.ObjectiveSpacePoint) Population {
	population := make(Population, len(points))
	for i, p := range points {
		population[i] = NewCandidate(nil, nil, p)
	}
	return population
}
