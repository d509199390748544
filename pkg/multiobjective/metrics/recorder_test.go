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

package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	observer := r.ForProblem("SCH")
	observer.ObserveGeneration(context.Background(), algorithms.GenerationReport{
		Generation:     1,
		FrontCount:     4,
		FirstFrontSize: 7,
		BestScore:      0.25,
		ObjectiveMeans: []float64{1.5, 2.5},
		Elapsed:        3 * time.Millisecond,
	})
	observer.ObserveGeneration(context.Background(), algorithms.GenerationReport{
		Generation:     2,
		FrontCount:     3,
		FirstFrontSize: 9,
		BestScore:      0.2,
		ObjectiveMeans: []float64{1, 2},
		Elapsed:        time.Millisecond,
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.generations.WithLabelValues("SCH")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.frontCount.WithLabelValues("SCH")))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.firstFrontSize.WithLabelValues("SCH")))
	assert.Equal(t, 0.2, testutil.ToFloat64(r.bestScore.WithLabelValues("SCH")))

	expected := `
# HELP moea_objective_mean Mean objective value over the parents.
# TYPE moea_objective_mean gauge
moea_objective_mean{objective="0",problem="SCH"} 1
moea_objective_mean{objective="1",problem="SCH"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "moea_objective_mean"))
	assert.Equal(t, 1, testutil.CollectAndCount(r.generationDuration))
}

func TestRecorderRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)
	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorderObservesRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	problem := benchmarks.NewZDT1(5)
	config := algorithms.NSGA2Config{
		PopulationSize:       12,
		MaxGenerations:       5,
		CrossoverProbability: 0.9,
		MutationProbability:  0.2,
		Seed:                 3,
	}
	nsga, err := algorithms.NewNSGAII(config, problem, framework.NewRealVariator(0.9, 0.2),
		algorithms.WithObservers(r.ForProblem(problem.Name())))
	require.NoError(t, err)

	_, err = nsga.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5.0, testutil.ToFloat64(r.generations.WithLabelValues("ZDT1")))
}
