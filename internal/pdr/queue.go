package pdr

import "github.com/Sichao-Yang/model-checking-algorithms/internal/cube"

// obligation is a proof obligation: block cube at frame. seq breaks ties
// between obligations at the same frame in FIFO order (spec.md §4.3
// "ascending by frame index; FIFO among equals").
type obligation struct {
	frame int
	seq   int
	cube  *cube.Cube
}

// obligationQueue is a container/heap priority queue ordered ascending by
// (frame, seq), the min-heap spec.md's recursive_block pops from.
type obligationQueue []*obligation

func (q obligationQueue) Len() int { return len(q) }

func (q obligationQueue) Less(i, j int) bool {
	if q[i].frame != q[j].frame {
		return q[i].frame < q[j].frame
	}
	return q[i].seq < q[j].seq
}

func (q obligationQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *obligationQueue) Push(x interface{}) {
	*q = append(*q, x.(*obligation))
}

func (q *obligationQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
