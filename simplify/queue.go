package simplify

import (
	"container/heap"

	"meshsimplify/math"
)

// edgeKey is the canonical undirected-edge identity used both as the
// contraction queue's validity-map key and, implicitly, as the heap
// entry's deduplication key: the directed pair pointing toward the
// lower-id endpoint.
type edgeKey struct {
	Tail, Head uint64
}

// contraction is one candidate edge collapse: its canonical edge identity,
// the endpoint ids from which the half-edge passed to CollapseEdge is
// re-resolved (v0 tail, v1 head), the precomputed optimal position
// and cost, and a validity flag cleared the moment either endpoint's
// one-ring changes.
type contraction struct {
	key      edgeKey
	v0, v1   uint64
	position math.Vec3
	cost     float32
	valid    bool
	index    int
}

// contractionQueue is a min-heap on cost with lazy invalidation: stale
// entries are left in place and skipped at pop time via the valid flag,
// rather than removed eagerly, since container/heap has no decrease-key
// primitive.
type contractionQueue struct {
	items []*contraction
	byKey map[edgeKey]*contraction
}

func newContractionQueue() *contractionQueue {
	return &contractionQueue{byKey: make(map[edgeKey]*contraction)}
}

func (q *contractionQueue) Len() int { return len(q.items) }

func (q *contractionQueue) Less(i, j int) bool {
	return q.items[i].cost < q.items[j].cost
}

func (q *contractionQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *contractionQueue) Push(x interface{}) {
	c := x.(*contraction)
	c.index = len(q.items)
	q.items = append(q.items, c)
}

func (q *contractionQueue) Pop() interface{} {
	n := len(q.items)
	c := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return c
}

// push installs c as the new live entry for its key, invalidating whatever
// entry currently occupies that key first.
func (q *contractionQueue) push(c *contraction) {
	if old, ok := q.byKey[c.key]; ok {
		old.valid = false
	}
	c.valid = true
	q.byKey[c.key] = c
	heap.Push(q, c)
}

// invalidate marks the live entry for key stale, if one exists, and drops
// it from the validity map.
func (q *contractionQueue) invalidate(key edgeKey) {
	if c, ok := q.byKey[key]; ok {
		c.valid = false
		delete(q.byKey, key)
	}
}

// pop unconditionally removes and returns the current minimum-cost entry.
func (q *contractionQueue) pop() *contraction {
	return heap.Pop(q).(*contraction)
}
