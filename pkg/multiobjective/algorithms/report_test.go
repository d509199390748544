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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBestByWeightedSum(t *testing.T) {
	pop := candidates([]float64{0, 10}, []float64{5, 5}, []float64{10, 0})
	tests := []struct {
		name    string
		weights []float64
		want    int
		score   float64
	}{
		{name: "equal weights keep the earliest tie", want: 0, score: 0.5},
		{name: "first objective", weights: []float64{1, 0}, want: 0, score: 0},
		{name: "second objective", weights: []float64{0, 1}, want: 2, score: 0},
		{name: "skewed", weights: []float64{0.4, 0.6}, want: 2, score: 0.4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			best, score := BestByWeightedSum(pop, tc.weights)
			if best != pop[tc.want] {
				t.Errorf("best = %v, want %v", best.Objectives, pop[tc.want].Objectives)
			}
			if score != tc.score {
				t.Errorf("score = %v, want %v", score, tc.score)
			}
		})
	}

	if best, _ := BestByWeightedSum(nil, nil); best != nil {
		t.Errorf("expected no best candidate for an empty population")
	}
}

func TestObjectiveMeans(t *testing.T) {
	got := ObjectiveMeans(candidates([]float64{0, 10}, []float64{5, 5}, []float64{10, 6}))
	if diff := cmp.Diff([]float64{5, 7}, got); diff != "" {
		t.Errorf("unexpected means (-want +got):\n%s", diff)
	}
}

func TestStagnationTerminator(t *testing.T) {
	stop := StagnationTerminator(2, 0.01)
	scores := []float64{1, 0.5, 0.495, 0.493, 0.2, 0.2, 0.2}
	want := []bool{false, false, false, true, false, false, true}
	for i, s := range scores {
		if got := stop(GenerationReport{Generation: i + 1, BestScore: s}); got != want[i] {
			t.Errorf("generation %d score %v: stop = %v, want %v", i+1, s, got, want[i])
		}
	}
}
