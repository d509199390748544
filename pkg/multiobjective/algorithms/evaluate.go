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
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// Evaluate decodes and scores every genome, returning one candidate per
// genome in the same order. With workers > 1 genomes are evaluated
// concurrently; the result does not depend on the worker count.
//
// A NaN objective or a vector whose length is not numObjectives aborts the
// batch with an *EvaluationError.
func Evaluate(ctx context.Context, evaluator framework.Evaluator, genomes []framework.Genome, numObjectives, workers int) (Population, error) {
	population := make(Population, len(genomes))

	if workers <= 1 {
		for i, g := range genomes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c, err := evaluateOne(evaluator, g, i, numObjectives)
			if err != nil {
				return nil, err
			}
			population[i] = c
		}
		return population, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, g := range genomes {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			c, err := evaluateOne(evaluator, g, i, numObjectives)
			if err != nil {
				return err
			}
			population[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return population, nil
}

func evaluateOne(evaluator framework.Evaluator, g framework.Genome, index, numObjectives int) (*Candidate, error) {
	decoded := evaluator.Decode(g)
	objectives := evaluator.Objectives(decoded)
	if len(objectives) != numObjectives {
		return nil, &EvaluationError{
			Index:      index,
			Objectives: objectives,
			Reason:     fmt.Sprintf("expected %d objectives, got %d", numObjectives, len(objectives)),
		}
	}
	for i, v := range objectives {
		if math.IsNaN(v) {
			return nil, &EvaluationError{
				Index:      index,
				Objectives: objectives,
				Reason:     fmt.Sprintf("objective %d is NaN", i),
			}
		}
	}
	return NewCandidate(g, decoded, objectives), nil
}
