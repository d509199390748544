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

package framework_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

func realBounds() []framework.Bounds {
	return []framework.Bounds{{L: 0, H: 1}, {L: -5, H: 5}, {L: 10, H: 10.5}}
}

func inBounds(t *testing.T, sol *framework.RealSolution) {
	t.Helper()
	for i, v := range sol.Variables {
		b := sol.Bounds[i]
		if v < b.L || v > b.H || math.IsNaN(v) {
			t.Fatalf("variable %d = %v outside [%v, %v]", i, v, b.L, b.H)
		}
	}
}

func TestBoundsClamp(t *testing.T) {
	b := framework.Bounds{L: -1, H: 2}
	for _, tc := range []struct{ in, want float64 }{{-3, -1}, {0.5, 0.5}, {2, 2}, {7, 2}} {
		if got := b.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRealSolutionClone(t *testing.T) {
	sol := framework.NewRealSolution([]float64{0.1, 0.2}, realBounds()[:2])
	clone := sol.Clone().(*framework.RealSolution)
	clone.Variables[0] = 0.9

	if sol.Variables[0] != 0.1 {
		t.Errorf("clone shares variables with the original")
	}
}

func TestRealDecoderCopies(t *testing.T) {
	sol := framework.NewRealSolution([]float64{0.25, 3}, realBounds()[:2])
	decoded := framework.RealDecoder{}.Decode(sol)
	if diff := cmp.Diff([]float64{0.25, 3}, decoded); diff != "" {
		t.Errorf("unexpected decoding (-want +got):\n%s", diff)
	}
	decoded[0] = 1
	if sol.Variables[0] != 0.25 {
		t.Errorf("decoded vector aliases the genome")
	}
}

func TestRealVariatorStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	v := framework.NewRealVariator(1, 1)

	for trial := 0; trial < 200; trial++ {
		a := framework.RandomRealSolution(realBounds(), rng)
		b := framework.RandomRealSolution(realBounds(), rng)
		inBounds(t, a)

		child := v.Crossover(a, b, rng).(*framework.RealSolution)
		inBounds(t, child)
		inBounds(t, v.Mutate(child, rng).(*framework.RealSolution))
	}
}

func TestRealVariatorRates(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := framework.RandomRealSolution(realBounds(), rng)
	b := framework.RandomRealSolution(realBounds(), rng)
	before := append([]float64(nil), a.Variables...)

	never := framework.NewRealVariator(0, 0)
	child := never.Crossover(a, b, rng).(*framework.RealSolution)
	if diff := cmp.Diff(a.Variables, child.Variables); diff != "" {
		t.Errorf("crossover with rate 0 changed the first parent's genes (-want +got):\n%s", diff)
	}
	mutated := never.Mutate(a, rng).(*framework.RealSolution)
	if diff := cmp.Diff(a.Variables, mutated.Variables); diff != "" {
		t.Errorf("mutation with rate 0 changed genes (-want +got):\n%s", diff)
	}

	always := framework.NewRealVariator(1, 1)
	always.Crossover(a, b, rng)
	always.Mutate(a, rng)
	if diff := cmp.Diff(before, a.Variables); diff != "" {
		t.Errorf("variation modified its input (-want +got):\n%s", diff)
	}
}

func TestRealVariatorIsReproducible(t *testing.T) {
	run := func() []float64 {
		rng := rand.New(rand.NewSource(99))
		v := framework.NewRealVariator(0.9, 0.5)
		a := framework.RandomRealSolution(realBounds(), rng)
		b := framework.RandomRealSolution(realBounds(), rng)
		return v.Mutate(v.Crossover(a, b, rng), rng).(*framework.RealSolution).Variables
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed produced different offspring (-first +second):\n%s", diff)
	}
}
