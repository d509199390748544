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

// Package benchmarks provides standard multi-objective test problems with
// known Pareto fronts, plus a bin placement problem, and a suite that runs
// NSGA-II on them and measures convergence.
package benchmarks

import (
	"golang.org/x/exp/rand"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// realProblem is shared by the continuous benchmarks: every variable is a
// real number within fixed bounds and decodes to itself.
type realProblem struct {
	framework.RealDecoder
	bounds []framework.Bounds
}

func newRealProblem(numVars int, low, high float64) realProblem {
	b := make([]framework.Bounds, numVars)
	for i := range b {
		b[i] = framework.Bounds{L: low, H: high}
	}
	return realProblem{bounds: b}
}

func (p *realProblem) Bounds() []framework.Bounds {
	return p.bounds
}

func (p *realProblem) RandomGenome(rng *rand.Rand) framework.Genome {
	return framework.RandomRealSolution(p.bounds, rng)
}

// NewVariator returns SBX crossover with polynomial mutation. A zero
// mutationRate means one mutated variable per genome on average.
func (p *realProblem) NewVariator(crossoverRate, mutationRate float64) framework.Variator {
	return framework.NewRealVariator(crossoverRate, perVariableRate(mutationRate, len(p.bounds)))
}

func perVariableRate(rate float64, numVars int) float64 {
	if rate > 0 || numVars == 0 {
		return rate
	}
	return 1.0 / float64(numVars)
}

// zdtG is the distance function shared by ZDT1, ZDT2 and ZDT3.
func zdtG(x []float64) float64 {
	g := 1.0
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	return g
}

// linspace returns numPoints evenly spaced values in [0, 1].
func linspace(numPoints int) []float64 {
	if numPoints == 1 {
		return []float64{0}
	}
	out := make([]float64, numPoints)
	for i := range out {
		out[i] = float64(i) / float64(numPoints-1)
	}
	return out
}
