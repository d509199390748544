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

	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// ZDT3 has a Pareto front made of five disconnected pieces.
type ZDT3 struct {
	realProblem
}

var _ framework.Problem = &ZDT3{}

func NewZDT3(numVars int) *ZDT3 {
	return &ZDT3{realProblem: newRealProblem(numVars, 0, 1)}
}

func (p *ZDT3) Name() string {
	return "ZDT3"
}

func (p *ZDT3) ObjectiveCount() int {
	return 2
}

func (p *ZDT3) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f1, p.f2}
}

func (p *ZDT3) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	return framework.ObjectiveEvaluator(p.ObjectiveFuncs()).Objectives(decoded)
}

func (p *ZDT3) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT3) f2(x []float64) float64 {
	g := zdtG(x)
	return g * zdt3H(x[0], g)
}

func zdt3H(f1, g float64) float64 {
	return 1.0 - math.Sqrt(f1/g) - (f1/g)*math.Sin(10*math.Pi*f1)
}

// TrueParetoFront samples the g=1 curve and keeps its non-dominated part,
// so the result has fewer than numPoints points.
func (p *ZDT3) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	curve := make([]framework.ObjectiveSpacePoint, numPoints)
	for i, x := range linspace(numPoints) {
		curve[i] = framework.ObjectiveSpacePoint{x, zdt3H(x, 1)}
	}
	return algorithms.GetParetoFront(algorithms.FromPoints(curve))
}
