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
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// SCH is Schaffer's problem generalized to several variables:
// f1 = sum(x_i^2), f2 = sum((x_i-2)^2). Every x with all x_i equal to the
// same t in [0, 2] is Pareto optimal.
type SCH struct {
	realProblem
	numVars int
}

var _ framework.Problem = &SCH{}

// NewSCH creates the problem with every variable bounded to [-10, 10].
func NewSCH(numVars int) *SCH {
	return &SCH{
		realProblem: newRealProblem(numVars, -10, 10),
		numVars:     numVars,
	}
}

func (p *SCH) Name() string {
	return "SCH"
}

func (p *SCH) ObjectiveCount() int {
	return 2
}

func (p *SCH) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f1, p.f2}
}

func (p *SCH) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	return framework.ObjectiveEvaluator(p.ObjectiveFuncs()).Objectives(decoded)
}

func (p *SCH) f1(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func (p *SCH) f2(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += (v - 2) * (v - 2)
	}
	return sum
}

func (p *SCH) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	n := float64(p.numVars)
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i, u := range linspace(numPoints) {
		t := 2 * u
		points[i] = framework.ObjectiveSpacePoint{n * t * t, n * (t - 2) * (t - 2)}
	}
	return points
}
