package creature

// Lineage is a set of ancestor ids. It only ever grows.
type Lineage map[uint64]struct{}

// NewLineage returns a lineage holding ids.
func NewLineage(ids ...uint64) Lineage {
	l := make(Lineage, len(ids))
	for _, id := range ids {
		l[id] = struct{}{}
	}
	return l
}

// Has reports whether id is an ancestor.
func (l Lineage) Has(id uint64) bool {
	_, ok := l[id]
	return ok
}

// Len returns the number of ancestors.
func (l Lineage) Len() int { return len(l) }

// Union returns a new lineage holding the ancestors of l and o plus extra.
func (l Lineage) Union(o Lineage, extra ...uint64) Lineage {
	out := make(Lineage, len(l)+len(o)+len(extra))
	for id := range l {
		out[id] = struct{}{}
	}
	for id := range o {
		out[id] = struct{}{}
	}
	for _, id := range extra {
		out[id] = struct{}{}
	}
	return out
}

// Clone returns an independent copy.
func (l Lineage) Clone() Lineage {
	return l.Union(nil)
}
