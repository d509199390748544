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
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// Item is a unit of work that has to be assigned to a bin.
type Item struct {
	Name string
	CPU  float64 // in millicores
	Mem  float64 // in bytes
	// Origin is the bin the item currently sits in, or -1.
	Origin int
	// Pinned items must stay in their origin bin.
	Pinned bool
}

// Bin is a capacity-limited target for items.
type Bin struct {
	Name        string
	CPUCapacity float64 // in millicores
	MemCapacity float64 // in bytes
	CostPerHour float64
}

// Placement assigns every item to a bin, minimizing three objectives:
//   - cost: hourly cost of the bins in use, relative to all bins
//   - imbalance: spread of CPU and memory utilization across bins
//   - disruption: share of items moved away from their origin
//
// Assignments that overflow a bin or move a pinned item are penalized.
type Placement struct {
	items  []Item
	bins   []Bin
	bounds []framework.IntBounds

	totalCost  float64
	evaluator  *framework.PenaltyEvaluator
	objectives *framework.MemoizedEvaluator
	crossover  framework.CrossoverFunc
}

var _ framework.Problem = &Placement{}

const maxRememberedAssignments = 1 << 20

// PlacementOption customizes a Placement.
type PlacementOption func(*Placement)

// WithCrossover replaces the group-aware crossover of the placement variator.
func WithCrossover(crossover framework.CrossoverFunc) PlacementOption {
	return func(p *Placement) {
		p.crossover = crossover
	}
}

func NewPlacement(items []Item, bins []Bin, opts ...PlacementOption) *Placement {
	p := &Placement{
		items:     items,
		bins:      bins,
		bounds:    make([]framework.IntBounds, len(items)),
		crossover: framework.GroupAwareCrossover,
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := range p.bounds {
		p.bounds[i] = framework.IntBounds{L: 0, H: len(bins) - 1}
	}
	for _, b := range bins {
		p.totalCost += b.CostPerHour
	}
	p.evaluator = &framework.PenaltyEvaluator{
		Inner: struct {
			framework.IntegerDecoder
			framework.ObjectiveEvaluator
		}{
			ObjectiveEvaluator: framework.ObjectiveEvaluator{p.cost, p.imbalance, p.disruption},
		},
		Constraints: []framework.Constraint{
			CapacityConstraint(items, bins),
			PinnedConstraint(items),
		},
		Dimension: 3,
	}
	p.objectives = framework.NewMemoizedEvaluator(p.evaluator, framework.WithMaxEntries(maxRememberedAssignments))
	return p
}

func (p *Placement) Name() string {
	return "Placement"
}

func (p *Placement) ObjectiveCount() int {
	return 3
}

func (p *Placement) Decode(g framework.Genome) []float64 {
	return p.evaluator.Decode(g)
}

// Objectives scores an assignment once; repeated assignments are served from
// memory.
func (p *Placement) Objectives(decoded []float64) framework.ObjectiveSpacePoint {
	return p.objectives.Objectives(decoded)
}

// Evaluated is the number of distinct assignments currently remembered. At
// most maxRememberedAssignments are kept.
func (p *Placement) Evaluated() int {
	return p.objectives.Len()
}

// Bins returns the bins of the instance.
func (p *Placement) Bins() []Bin {
	return p.bins
}

// Usage returns the CPU and memory placed in every bin.
func (p *Placement) Usage(decoded []float64) (cpu, mem []float64) {
	return p.usage(decoded)
}

// Feasible reports whether decoded satisfies every placement constraint.
func (p *Placement) Feasible(decoded []float64) bool {
	return p.evaluator.Violations(decoded) == 0
}

func (p *Placement) RandomGenome(rng *rand.Rand) framework.Genome {
	return framework.RandomIntegerSolution(p.bounds, rng)
}

// NewVariator keeps items that share a bin together during crossover unless
// another crossover was configured. A zero mutationRate moves one item per
// genome on average.
func (p *Placement) NewVariator(crossoverRate, mutationRate float64) framework.Variator {
	return framework.NewIntegerVariator(p.crossover, crossoverRate, perVariableRate(mutationRate, len(p.items)))
}

// TrueParetoFront is unknown for placement instances.
func (p *Placement) TrueParetoFront(int) []framework.ObjectiveSpacePoint {
	return nil
}

// SeedGenomes returns the current assignment, when every item has one, and
// a best fit decreasing packing.
func (p *Placement) SeedGenomes() []framework.Genome {
	var seeds []framework.Genome
	current := make([]int, len(p.items))
	placed := true
	for i, item := range p.items {
		if item.Origin < 0 || item.Origin >= len(p.bins) {
			placed = false
			break
		}
		current[i] = item.Origin
	}
	if placed {
		seeds = append(seeds, framework.NewIntegerSolution(current, p.bounds))
	}
	return append(seeds, framework.NewIntegerSolution(p.BestFitDecreasing(), p.bounds))
}

func (p *Placement) cost(decoded []float64) float64 {
	if p.totalCost == 0 {
		return 0
	}
	used := make([]bool, len(p.bins))
	cost := 0.0
	for _, v := range decoded {
		b := int(v)
		if !used[b] {
			used[b] = true
			cost += p.bins[b].CostPerHour
		}
	}
	return cost / p.totalCost
}

// imbalance is the mean of the CPU and memory utilization standard
// deviations, with utilization expressed as a fraction of capacity.
func (p *Placement) imbalance(decoded []float64) float64 {
	cpuUsed, memUsed := p.usage(decoded)
	cpuUtils := make([]float64, len(p.bins))
	memUtils := make([]float64, len(p.bins))
	for i, b := range p.bins {
		if b.CPUCapacity > 0 {
			cpuUtils[i] = cpuUsed[i] / b.CPUCapacity
		}
		if b.MemCapacity > 0 {
			memUtils[i] = memUsed[i] / b.MemCapacity
		}
	}
	_, cpuVariance := stat.PopMeanVariance(cpuUtils, nil)
	_, memVariance := stat.PopMeanVariance(memUtils, nil)
	return 0.5*math.Sqrt(cpuVariance) + 0.5*math.Sqrt(memVariance)
}

func (p *Placement) disruption(decoded []float64) float64 {
	if len(p.items) == 0 {
		return 0
	}
	moved := 0
	for i, v := range decoded {
		if origin := p.items[i].Origin; origin >= 0 && origin != int(v) {
			moved++
		}
	}
	return float64(moved) / float64(len(p.items))
}

func (p *Placement) usage(decoded []float64) (cpu, mem []float64) {
	cpu = make([]float64, len(p.bins))
	mem = make([]float64, len(p.bins))
	for i, v := range decoded {
		cpu[int(v)] += p.items[i].CPU
		mem[int(v)] += p.items[i].Mem
	}
	return cpu, mem
}

// CapacityConstraint checks that no bin receives more CPU or memory than it
// holds.
func CapacityConstraint(items []Item, bins []Bin) framework.Constraint {
	return func(decoded []float64) bool {
		cpuUsed := make([]float64, len(bins))
		memUsed := make([]float64, len(bins))
		for itemIdx, v := range decoded {
			binIdx := int(v)
			if binIdx < 0 || binIdx >= len(bins) {
				return false
			}
			cpuUsed[binIdx] += items[itemIdx].CPU
			memUsed[binIdx] += items[itemIdx].Mem
		}
		for i, b := range bins {
			if cpuUsed[i] > b.CPUCapacity || memUsed[i] > b.MemCapacity {
				return false
			}
		}
		return true
	}
}

// PinnedConstraint checks that pinned items stay in their origin bin.
func PinnedConstraint(items []Item) framework.Constraint {
	return func(decoded []float64) bool {
		for i, item := range items {
			if item.Pinned && int(decoded[i]) != item.Origin {
				return false
			}
		}
		return true
	}
}

// BestFitDecreasing packs items, largest first, into the bin that leaves
// the least room among bins already in use, opening the most cost
// efficient bin when none fits. Pinned items stay in place. Items that fit
// nowhere go to the bin with the most free CPU.
func (p *Placement) BestFitDecreasing() []int {
	assignment := make([]int, len(p.items))
	cpuFree := make([]float64, len(p.bins))
	memFree := make([]float64, len(p.bins))
	active := make([]bool, len(p.bins))
	for i, b := range p.bins {
		cpuFree[i] = b.CPUCapacity
		memFree[i] = b.MemCapacity
	}
	place := func(itemIdx, binIdx int) {
		assignment[itemIdx] = binIdx
		cpuFree[binIdx] -= p.items[itemIdx].CPU
		memFree[binIdx] -= p.items[itemIdx].Mem
		active[binIdx] = true
	}

	var order []int
	for i, item := range p.items {
		if item.Pinned && item.Origin >= 0 && item.Origin < len(p.bins) {
			place(i, item.Origin)
			continue
		}
		order = append(order, i)
	}
	size := func(item Item) float64 {
		return item.CPU/1000.0 + item.Mem/1e9
	}
	sort.SliceStable(order, func(i, j int) bool {
		return size(p.items[order[i]]) > size(p.items[order[j]])
	})

	// Sort bins by cost efficiency
	binOrder := make([]int, len(p.bins))
	for i := range binOrder {
		binOrder[i] = i
	}
	efficiency := func(b Bin) float64 {
		capacity := b.CPUCapacity/1000.0 + b.MemCapacity/1e9
		if capacity == 0 {
			capacity = 1
		}
		return b.CostPerHour / capacity
	}
	sort.SliceStable(binOrder, func(i, j int) bool {
		return efficiency(p.bins[binOrder[i]]) < efficiency(p.bins[binOrder[j]])
	})

	fits := func(itemIdx, binIdx int) bool {
		return p.items[itemIdx].CPU <= cpuFree[binIdx] && p.items[itemIdx].Mem <= memFree[binIdx]
	}
	for _, itemIdx := range order {
		best := -1
		bestSlack := 0.0
		for _, binIdx := range binOrder {
			if !active[binIdx] || !fits(itemIdx, binIdx) {
				continue
			}
			slack := (cpuFree[binIdx]-p.items[itemIdx].CPU)/1000.0 + (memFree[binIdx]-p.items[itemIdx].Mem)/1e9
			if best < 0 || slack < bestSlack {
				best, bestSlack = binIdx, slack
			}
		}
		if best < 0 {
			for _, binIdx := range binOrder {
				if !active[binIdx] && fits(itemIdx, binIdx) {
					best = binIdx
					break
				}
			}
		}
		if best < 0 {
			best = 0
			for binIdx := range p.bins {
				if cpuFree[binIdx] > cpuFree[best] {
					best = binIdx
				}
			}
		}
		place(itemIdx, best)
	}
	return assignment
}

// Describe renders an assignment as bin name to item names.
func (p *Placement) Describe(decoded []float64) map[string][]string {
	out := make(map[string][]string, len(p.bins))
	for i, v := range decoded {
		bin := p.bins[int(v)].Name
		if bin == "" {
			bin = fmt.Sprintf("bin-%d", int(v))
		}
		out[bin] = append(out[bin], p.items[i].Name)
	}
	return out
}
