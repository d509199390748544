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

// Package framework holds the contracts between the optimizer core and the
// problem-specific collaborators: genome encoding, decoding, objective
// evaluation and variation operators.
package framework

import (
	"golang.org/x/exp/rand"
)

// Genome is the encoded representation of a candidate solution. The optimizer
// never looks inside a genome; it only clones it and hands it back to the
// problem's collaborators.
type Genome interface {
	Clone() Genome
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// ObjectiveFunc computes a single objective from a decoded vector.
// All objectives are minimized; maximization objectives must be negated.
type ObjectiveFunc func(decoded []float64) float64

// Bounds is the closed interval a real variable is allowed to take.
type Bounds struct {
	L float64
	H float64
}

// Clamp returns v limited to [L, H].
func (b Bounds) Clamp(v float64) float64 {
	if v < b.L {
		return b.L
	}
	if v > b.H {
		return b.H
	}
	return v
}

// Evaluator decodes a genome into its real-valued phenotype and scores it.
// Implementations must be pure: the optimizer may call them concurrently
// for different genomes.
type Evaluator interface {
	Decode(Genome) []float64
	Objectives(decoded []float64) ObjectiveSpacePoint
}

// GenomeFactory builds random genomes for the initial population.
type GenomeFactory interface {
	RandomGenome(rng *rand.Rand) Genome
}

// Variator produces offspring genomes. Crossover never modifies its parents.
// Mutate may return its argument unchanged.
type Variator interface {
	Crossover(a, b Genome, rng *rand.Rand) Genome
	Mutate(g Genome, rng *rand.Rand) Genome
}

// Problem describes the contract a specific multi-objective problem needs to implement.
type Problem interface {
	Name() string
	ObjectiveCount() int

	Evaluator
	GenomeFactory

	// TrueParetoFront is optional due to the difficulty of finding the true front
	// in some types of problems. When there isn't a way to find the true front,
	// just return nil.
	TrueParetoFront(numPoints int) []ObjectiveSpacePoint
}

// Algorithm describes the contract that a MOO algorithm needs to implement.
type Algorithm interface {
	Name() string
}

// ObjectiveEvaluator adapts a list of ObjectiveFuncs to the Objectives half of
// the Evaluator contract.
type ObjectiveEvaluator []ObjectiveFunc

// Objectives evaluates every function in order.
func (fs ObjectiveEvaluator) Objectives(decoded []float64) ObjectiveSpacePoint {
	res := make(ObjectiveSpacePoint, len(fs))
	for i, f := range fs {
		res[i] = f(decoded)
	}
	return res
}
