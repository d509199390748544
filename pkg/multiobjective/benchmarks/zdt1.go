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

// ZDT1 has a convex Pareto front
type ZDT1 struct {
	realProblem
}

var _ framework.Problem = &ZDT1{}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{realProblem: newRealProblem(numVars, 0, 1)}
}

func (p *ZDT1) Name() string {
	return "ZDT1"
}

func (p *ZDT1) ObjectiveCount() int {
	return 2
}

func (p *ZDT1) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f1, p.f2}
}

func (p *ZDT1) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	return framework.ObjectiveEvaluator(p.ObjectiveFuncs()).Objectives(decoded)
}

func (p *ZDT1) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT1) f2(x []float64) float64 {
	g := zdtG(x)
	return g * (1.0 - math.Sqrt(x[0]/g))
}

func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i, x := range linspace(numPoints) {
		points[i] = framework.ObjectiveSpacePoint{x, 1.0 - math.Sqrt(x)}
	}
	return points
}
