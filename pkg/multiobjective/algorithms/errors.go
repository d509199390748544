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

package algorithms

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

var (
	// ErrInvalidConfiguration is returned before any generation runs.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEvaluation aborts a run when an evaluator returns an unusable
	// objective vector.
	ErrEvaluation = errors.New("evaluation failed")
	// ErrInvariantViolated means the ranked fronts did not partition the pool.
	// It is never expected with a correct sorter and is not recoverable.
	ErrInvariantViolated = errors.New("internal invariant violated")
)

// ConfigurationError lists every invalid field of an NSGA2Config.
type ConfigurationError struct {
	Errs field.ErrorList
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidConfiguration, e.Errs.ToAggregate())
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// EvaluationError reports the candidate whose objective vector could not be
// used for dominance comparisons.
type EvaluationError struct {
	// Index of the genome in the batch being evaluated.
	Index      int
	Objectives framework.ObjectiveSpacePoint
	Reason     string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%v: candidate %d: %s (objectives %v)", ErrEvaluation, e.Index, e.Reason, e.Objectives)
}

func (e *EvaluationError) Unwrap() error {
	return ErrEvaluation
}
