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

// Constraint returns true if the constraint is satisfied and false otherwise.
type Constraint func(decoded []float64) bool

// CombineConstraints combines multiple constraints into one
func CombineConstraints(constraints ...Constraint) Constraint {
	return func(decoded []float64) bool {
		for _, constraint := range constraints {
			if !constraint(decoded) {
				return false
			}
		}
		return true
	}
}

// DefaultPenalty is the per-violation objective value assigned to
// infeasible solutions by PenaltyEvaluator.
const DefaultPenalty = 1e9

// PenaltyEvaluator scores infeasible solutions with a large finite value on
// every objective, proportional to the number of violated constraints, so
// evolution moves away from them. Feasible solutions are scored by Inner.
type PenaltyEvaluator struct {
	Inner       Evaluator
	Constraints []Constraint
	// Penalty per violated constraint. Zero means DefaultPenalty.
	Penalty float64
	// Dimension is the number of objectives Inner produces.
	Dimension int
}

func (p *PenaltyEvaluator) Decode(g Genome) []float64 {
	return p.Inner.Decode(g)
}

func (p *PenaltyEvaluator) Objectives(decoded []float64) ObjectiveSpacePoint {
	violated := p.Violations(decoded)
	if violated == 0 {
		return p.Inner.Objectives(decoded)
	}

	penalty := p.Penalty
	if penalty == 0 {
		penalty = DefaultPenalty
	}
	res := make(ObjectiveSpacePoint, p.Dimension)
	for i := range res {
		res[i] = penalty * float64(violated)
	}
	return res
}

// Violations counts the constraints decoded does not satisfy.
func (p *PenaltyEvaluator) Violations(decoded []float64) int {
	violated := 0
	for _, c := range p.Constraints {
		if !c(decoded) {
			violated++
		}
	}
	return violated
}
