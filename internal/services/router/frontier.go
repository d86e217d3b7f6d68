package router

import (
	"container/heap"

	"github.com/SynclonSec/swaproute/internal/domain"
)

// searchPath is one partial route on the frontier, keyed by the cumulative
// output of its last hop.
type searchPath struct {
	steps  []domain.SwapStep
	output float64
}

func (p *searchPath) last() *domain.SwapStep {
	return &p.steps[len(p.steps)-1]
}

// extend returns a new path with one more hop appended. The receiver's step
// slice is never aliased so sibling paths cannot clobber each other.
func (p *searchPath) extend(step domain.SwapStep) *searchPath {
	steps := make([]domain.SwapStep, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	return &searchPath{
		steps:  append(steps, step),
		output: step.OutAmount,
	}
}

// frontier is a max-output-first priority queue of partial routes.
type frontier []*searchPath

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].output > f[j].output }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) {
	*f = append(*f, x.(*searchPath))
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return p
}

func newFrontier() *frontier {
	f := make(frontier, 0, 16)
	heap.Init(&f)
	return &f
}

func (f *frontier) push(p *searchPath) {
	heap.Push(f, p)
}

func (f *frontier) pop() *searchPath {
	return heap.Pop(f).(*searchPath)
}
