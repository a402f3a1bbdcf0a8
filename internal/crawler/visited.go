package crawler

// visitedSet tracks the node ids discovered by one crawl, preventing
// re-emission and cycles. It is scoped strictly to a single Execute
// invocation and discarded once the result is assembled; nothing is ever
// shared across crawls, which is why no locking exists here.
type visitedSet struct {
	ids map[string]struct{}
}

// newVisitedSet creates an empty visited set.
func newVisitedSet() *visitedSet {
	return &visitedSet{ids: make(map[string]struct{})}
}

// Visit marks the id as discovered. It returns true if the id was new and
// false if it had been seen before.
func (v *visitedSet) Visit(id string) bool {
	if _, seen := v.ids[id]; seen {
		return false
	}
	v.ids[id] = struct{}{}
	return true
}

// Seen reports whether the id has been discovered.
func (v *visitedSet) Seen(id string) bool {
	_, seen := v.ids[id]
	return seen
}

// Len returns the number of discovered ids.
// Invariant: equals the number of emitted nodes at all times.
func (v *visitedSet) Len() int {
	return len(v.ids)
}
