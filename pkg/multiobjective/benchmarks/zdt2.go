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

// ZDT2 has a non-convex Pareto front
type ZDT2 struct {
	realProblem
}

var _ framework.Problem = &ZDT2{}

func NewZDT2(numVars int) *ZDT2 {
	return &ZDT2{realProblem: newRealProblem(numVars, 0, 1)}
}

func (p *ZDT2) Name() string {
	return "ZDT2"
}

func (p *ZDT2) ObjectiveCount() int {
	return 2
}

func (p *ZDT2) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f1, p.f2}
}

func (p *ZDT2) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	return framework.ObjectiveEvaluator(p.ObjectiveFuncs()).Objectives(decoded)
}

func (p *ZDT2) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT2) f2(x []float64) float64 {
	g := zdtG(x)
	// Note: ZDT2 uses (1 - (x1/g)^2) instead of sqrt
	return g * (1.0 - math.Pow(x[0]/g, 2))
}

func (p *ZDT2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i, x := range linspace(numPoints) {
		points[i] = framework.ObjectiveSpacePoint{x, 1.0 - x*x}
	}
	return points
}
