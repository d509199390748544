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

package benchmarks

import (
	"math"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// DTLZ1 is scalable to any number of objectives
// It has a linear Pareto front and many local fronts
type DTLZ1 struct {
	realProblem
	numVars       int
	numObjectives int
}

var _ framework.Problem = &DTLZ1{}

func NewDTLZ1(numVars, numObjectives int) *DTLZ1 {
	// Recommended: numVars = numObjectives + k - 1, where k = 5 for DTLZ1
	return &DTLZ1{
		realProblem:   newRealProblem(numVars, 0, 1),
		numVars:       numVars,
		numObjectives: numObjectives,
	}
}

func (p *DTLZ1) Name() string {
	return "DTLZ1"
}

func (p *DTLZ1) ObjectiveCount() int {
	return p.numObjectives
}

func (p *DTLZ1) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	g := p.g(decoded)
	res := make(framework.ObjectiveSpacePoint, p.numObjectives)
	for i := range res {
		res[i] = p.objective(decoded, i, g)
	}
	return res
}

func (p *DTLZ1) g(x []float64) float64 {
	k := p.numVars - p.numObjectives + 1
	sum := 0.0
	for i := p.numObjectives - 1; i < p.numVars; i++ {
		sum += math.Pow(x[i]-0.5, 2) - math.Cos(20*math.Pi*(x[i]-0.5))
	}
	return 100 * (float64(k) + sum)
}

func (p *DTLZ1) objective(x []float64, objIdx int, g float64) float64 {
	f := 0.5 * (1 + g)
	for i := 0; i < p.numObjectives-objIdx-1; i++ {
		f *= x[i]
	}
	if objIdx > 0 {
		f *= (1 - x[p.numObjectives-objIdx-1])
	}
	return f
}

// TrueParetoFront is the hyperplane sum(f_i) = 0.5, generated for two and
// three objectives only.
func (p *DTLZ1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	switch p.numObjectives {
	case 2:
		points := make([]framework.ObjectiveSpacePoint, numPoints)
		for i, t := range linspace(numPoints) {
			points[i] = framework.ObjectiveSpacePoint{0.5 * t, 0.5 * (1 - t)}
		}
		return points
	case 3:
		side := int(math.Sqrt(float64(numPoints)))
		steps := linspace(side)
		points := make([]framework.ObjectiveSpacePoint, 0, side*side)
		for _, a := range steps {
			for _, b := range steps {
				if a+b > 1 {
					continue
				}
				points = append(points, framework.ObjectiveSpacePoint{0.5 * a, 0.5 * b, 0.5 * (1 - a - b)})
			}
		}
		return points
	}
	return nil
}
