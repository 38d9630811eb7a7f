package coresim

import (
	"sort"
)

type Queue struct {
	q []*Proc
}

func newQueue() *Queue {
	q := &Queue{q: make([]*Proc, 0)}
	return q
}

func (q *Queue) String() string {
	str := ""
	for _, p := range q.q {
		str += p.String() + "\n"
	}
	return str
}

func (q *Queue) enq(p *Proc) {
	q.q = append(q.q, p)
}

func (q *Queue) deq() *Proc {
	if len(q.q) == 0 {
		return nil
	}
	procSelected := q.q[0]
	q.q = q.q[1:]
	return procSelected
}

func (q *Queue) qlen() int {
	return len(q.q)
}

func (q *Queue) getQ() []*Proc {
	return q.q
}

// lower priority value is served first; the sort must be stable so that
// equal-priority procs keep their insertion order
func (q *Queue) sortByPriority() {
	sort.SliceStable(q.q, func(i, j int) bool {
		return q.q[i].priority < q.q[j].priority
	})
}

func (q *Queue) removeAt(idx int) *Proc {
	p := q.q[idx]
	q.q = append(q.q[:idx], q.q[idx+1:]...)
	return p
}
