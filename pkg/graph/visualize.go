package graph

// Class is the visualization state of an atom.
type Class int

const (
	// ClassUnknown: neither queued nor visited.
	ClassUnknown Class = iota
	// ClassFront: at the front of the queue, processed by the next step.
	ClassFront
	// ClassEnqueued: queued, not yet visited.
	ClassEnqueued
	// ClassVisited: visited, not queued again.
	ClassVisited
	// ClassBoth: visited and queued again from another provenance.
	ClassBoth
)

func (c Class) String() string {
	switch c {
	case ClassFront:
		return "front"
	case ClassEnqueued:
		return "enqueued"
	case ClassVisited:
		return "visited"
	case ClassBoth:
		return "both"
	}
	return "unknown"
}

// Classify reports the visualization state of a from already recorded
// state. It never changes the search.
func (g *Graph) Classify(a Atom) Class {
	if front, ok := g.queue.Peek(); ok && front.Atom == a {
		return ClassFront
	}
	queued := g.queued(a)
	visited := g.Visited(a)
	switch {
	case queued && visited:
		return ClassBoth
	case queued:
		return ClassEnqueued
	case visited:
		return ClassVisited
	}
	return ClassUnknown
}

func (g *Graph) queued(a Atom) bool {
	if g.pending != nil {
		return g.pending[a] > 0
	}
	found := false
	g.queue.Each(func(it Item) bool {
		found = it.Atom == a
		return !found
	})
	return found
}

// Front returns the item the next step will process.
func (g *Graph) Front() (Item, bool) { return g.queue.Peek() }

// Pending returns the queued items in processing order.
func (g *Graph) Pending() []Item { return g.queue.Slice() }

// QueueLen returns the number of queued items.
func (g *Graph) QueueLen() int { return g.queue.Len() }
