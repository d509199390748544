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
	"math"

	"golang.org/x/exp/rand"
)

// RealSolution represents a solution with real-valued variables.
type RealSolution struct {
	Variables []float64
	Bounds    []Bounds
}

func NewRealSolution(vars []float64, b []Bounds) *RealSolution {
	return &RealSolution{
		Variables: vars,
		Bounds:    b,
	}
}

func (sol *RealSolution) Clone() Genome {
	vars := make([]float64, len(sol.Variables))
	copy(vars, sol.Variables)
	return &RealSolution{
		Variables: vars,
		Bounds:    sol.Bounds,
	}
}

// RandomRealSolution samples every variable uniformly inside its bounds.
func RandomRealSolution(b []Bounds, rng *rand.Rand) *RealSolution {
	vars := make([]float64, len(b))
	for j := range b {
		vars[j] = b[j].L + rng.Float64()*(b[j].H-b[j].L)
	}
	return NewRealSolution(vars, b)
}

// RealDecoder is the identity decoding for RealSolution genomes.
type RealDecoder struct{}

func (RealDecoder) Decode(g Genome) []float64 {
	sol := g.(*RealSolution)
	out := make([]float64, len(sol.Variables))
	copy(out, sol.Variables)
	return out
}

// RealVariator applies SBX (Simulated Binary Crossover) and polynomial
// mutation to RealSolution genomes. Children are always clamped to the
// parent's bounds.
type RealVariator struct {
	CrossoverRate float64
	MutationRate  float64
	// DistributionIndex is eta for both operators. Zero means 20.
	DistributionIndex float64
}

func NewRealVariator(crossoverRate, mutationRate float64) *RealVariator {
	return &RealVariator{
		CrossoverRate: crossoverRate,
		MutationRate:  mutationRate,
	}
}

const defaultDistributionIndex = 20

func (v *RealVariator) eta() float64 {
	if v.DistributionIndex <= 0 {
		return defaultDistributionIndex
	}
	return v.DistributionIndex
}

// Crossover performs SBX and returns the child leaning towards a.
func (v *RealVariator) Crossover(a, b Genome, rng *rand.Rand) Genome {
	p1 := a.(*RealSolution)
	p2 := b.(*RealSolution)
	child := p1.Clone().(*RealSolution)

	if rng.Float64() >= v.CrossoverRate {
		return child
	}

	exp := 1.0 / (v.eta() + 1)
	for i := range child.Variables {
		beta := 0.0
		u := rng.Float64()
		if u <= 0.5 {
			beta = math.Pow(2*u, exp)
		} else {
			beta = math.Pow(1.0/(2*(1.0-u)), exp)
		}

		x := 0.5 * ((1+beta)*p1.Variables[i] + (1-beta)*p2.Variables[i])
		child.Variables[i] = p1.Bounds[i].Clamp(x)
	}

	return child
}

// Mutate performs polynomial mutation on a copy of g.
func (v *RealVariator) Mutate(g Genome, rng *rand.Rand) Genome {
	sol := g.(*RealSolution).Clone().(*RealSolution)
	exp := 1.0 / (v.eta() + 1)

	for i := range sol.Variables {
		if rng.Float64() >= v.MutationRate {
			continue
		}
		delta := 0.0
		u := rng.Float64()
		if u <= 0.5 {
			delta = math.Pow(2*u, exp) - 1
		} else {
			delta = 1 - math.Pow(2*(1-u), exp)
		}

		b := sol.Bounds[i]
		sol.Variables[i] = b.Clamp(sol.Variables[i] + delta*(b.H-b.L))
	}
	return sol
}
