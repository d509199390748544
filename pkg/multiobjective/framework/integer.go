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
	"golang.org/x/exp/rand"
)

// IntBounds is the closed integer interval a gene may take.
type IntBounds struct {
	L int
	H int
}

// IntegerSolution encodes a solution as one integer per decision, e.g. the
// index of the bin each item is assigned to.
type IntegerSolution struct {
	Variables []int
	Bounds    []IntBounds
}

func NewIntegerSolution(vars []int, b []IntBounds) *IntegerSolution {
	return &IntegerSolution{
		Variables: vars,
		Bounds:    b,
	}
}

func (sol *IntegerSolution) Clone() Genome {
	vars := make([]int, len(sol.Variables))
	copy(vars, sol.Variables)
	return &IntegerSolution{
		Variables: vars,
		Bounds:    sol.Bounds,
	}
}

// RandomIntegerSolution samples every gene uniformly inside its bounds.
func RandomIntegerSolution(b []IntBounds, rng *rand.Rand) *IntegerSolution {
	vars := make([]int, len(b))
	for i := range b {
		vars[i] = b[i].L + rng.Intn(b[i].H-b[i].L+1)
	}
	return NewIntegerSolution(vars, b)
}

// IntegerDecoder converts every gene to float64.
type IntegerDecoder struct{}

func (IntegerDecoder) Decode(g Genome) []float64 {
	vars := g.(*IntegerSolution).Variables
	out := make([]float64, len(vars))
	for i, v := range vars {
		out[i] = float64(v)
	}
	return out
}

// IntegerVariator combines an integer CrossoverFunc with random-reset
// mutation.
type IntegerVariator struct {
	CrossoverFunc CrossoverFunc
	CrossoverRate float64
	MutationRate  float64
}

// NewIntegerVariator returns a variator using uniform crossover when fn is nil.
func NewIntegerVariator(fn CrossoverFunc, crossoverRate, mutationRate float64) *IntegerVariator {
	if fn == nil {
		fn = UniformCrossover
	}
	return &IntegerVariator{
		CrossoverFunc: fn,
		CrossoverRate: crossoverRate,
		MutationRate:  mutationRate,
	}
}

// Crossover returns the first child of CrossoverFunc(a, b).
func (v *IntegerVariator) Crossover(a, b Genome, rng *rand.Rand) Genome {
	p1 := a.(*IntegerSolution)
	p2 := b.(*IntegerSolution)

	if rng.Float64() >= v.CrossoverRate {
		return p1.Clone()
	}
	child, _ := v.CrossoverFunc(p1.Variables, p2.Variables, rng)
	return NewIntegerSolution(child, p1.Bounds)
}

// Mutate resets each gene with MutationRate to a different value inside
// its bounds.
func (v *IntegerVariator) Mutate(g Genome, rng *rand.Rand) Genome {
	sol := g.Clone().(*IntegerSolution)
	for i := range sol.Variables {
		if rng.Float64() >= v.MutationRate {
			continue
		}
		b := sol.Bounds[i]
		span := b.H - b.L
		if span <= 0 {
			continue
		}
		// pick among the span other values
		next := b.L + rng.Intn(span)
		if next >= sol.Variables[i] {
			next++
		}
		sol.Variables[i] = next
	}
	return sol
}
