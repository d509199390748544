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
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// Candidate wraps a genome in the population together with its decoded
// vector and objective values, which are computed once at creation, and the
// Rank and Distance fields, which are recomputed every time the pool it
// belongs to is ranked.
type Candidate struct {
	Genome     framework.Genome
	Decoded    []float64
	Objectives framework.ObjectiveSpacePoint

	Rank     int
	Distance float64
}

func NewCandidate(genome framework.Genome, decoded []float64, objectives framework.ObjectiveSpacePoint) *Candidate {
	return &Candidate{
		Genome:     genome,
		Decoded:    decoded,
		Objectives: objectives,
	}
}

// Population is an ordered collection of candidates.
type Population []*Candidate

// Front is an ordered set of candidates sharing the same rank.
type Front []*Candidate

// Merge returns a new pool holding parents followed by offspring. Neither
// input slice is modified.
func Merge(parents, offspring Population) Population {
	merged := make(Population, 0, len(parents)+len(offspring))
	merged = append(merged, parents...)
	return append(merged, offspring...)
}

// ObjectivePoints returns the objective vectors of the given candidates.
func ObjectivePoints(candidates []*Candidate) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, len(candidates))
	for i, c := range candidates {
		points[i] = c.Objectives
	}
	return points
}
