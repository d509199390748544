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

// DTLZ2 has a spherical Pareto front
type DTLZ2 struct {
	realProblem
	numVars       int
	numObjectives int
}

var _ framework.Problem = &DTLZ2{}

func NewDTLZ2(numVars, numObjectives int) *DTLZ2 {
	// Recommended: numVars = numObjectives + k - 1, where k = 10 for DTLZ2
	return &DTLZ2{
		realProblem:   newRealProblem(numVars, 0, 1),
		numVars:       numVars,
		numObjectives: numObjectives,
	}
}

func (p *DTLZ2) Name() string {
	return "DTLZ2"
}

func (p *DTLZ2) ObjectiveCount() int {
	return p.numObjectives
}

func (p *DTLZ2) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	g := p.g(decoded)
	res := make(framework.ObjectiveSpacePoint, p.numObjectives)
	for objIdx := range res {
		f := 1 + g
		// Product of cos terms
		for i := 0; i < p.numObjectives-objIdx-1; i++ {
			f *= math.Cos(decoded[i] * math.Pi / 2)
		}
		// Last term is sin for all objectives except the first
		if objIdx > 0 {
			f *= math.Sin(decoded[p.numObjectives-objIdx-1] * math.Pi / 2)
		}
		res[objIdx] = f
	}
	return res
}

func (p *DTLZ2) g(x []float64) float64 {
	sum := 0.0
	for i := p.numObjectives - 1; i < p.numVars; i++ {
		sum += math.Pow(x[i]-0.5, 2)
	}
	return sum
}

// TrueParetoFront samples the unit sphere sum(f_i^2) = 1 in the positive
// orthant, for two and three objectives.
func (p *DTLZ2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	switch p.numObjectives {
	case 2:
		points := make([]framework.ObjectiveSpacePoint, numPoints)
		for i, t := range linspace(numPoints) {
			theta := (math.Pi / 2) * t
			points[i] = framework.ObjectiveSpacePoint{math.Cos(theta), math.Sin(theta)}
		}
		return points
	case 3:
		side := int(math.Sqrt(float64(numPoints)))
		steps := linspace(side)
		points := make([]framework.ObjectiveSpacePoint, 0, side*side)
		for _, a := range steps {
			theta := (math.Pi / 2) * a
			for _, b := range steps {
				phi := (math.Pi / 2) * b
				points = append(points, framework.ObjectiveSpacePoint{
					math.Cos(theta) * math.Cos(phi),
					math.Sin(theta) * math.Cos(phi),
					math.Sin(phi),
				})
			}
		}
		return points
	}
	return nil
}
