// Copyright (C) 2026 ftsplan authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package search

// TermDocIterator wraps a single term's PostingIterator so it
// can participate in a composed DocIterator tree, and is the
// value the scorer sees via Scorer.AddDocIterator.
type TermDocIterator struct {
	post   PostingIterator
	weight float64
	column ColumnID
}

func (t *TermDocIterator) Next() bool              { return t.post.Next() }
func (t *TermDocIterator) AdvanceTo(doc uint32) bool { return t.post.AdvanceTo(doc) }
func (t *TermDocIterator) DocID() uint32           { return t.post.DocID() }

// Score reports this leaf's configured weight. The scorer's own
// BM25/TF-IDF statistics are computed externally; this is only
// the static per-leaf weight carried from the query tree.
func (t *TermDocIterator) Score() float64 { return t.weight }

// Weight returns the leaf's configured weight.
func (t *TermDocIterator) Weight() float64 { return t.weight }

// Column returns the column this term was resolved against.
func (t *TermDocIterator) Column() ColumnID { return t.column }

// andIterator intersects its children by doc id, using a
// leapfrog alignment: the "laggard" children are advanced to the
// current maximum until every child agrees.
type andIterator struct {
	children []DocIterator
	doc      uint32
	started  bool
}

func newAndIterator(children []DocIterator) *andIterator {
	return &andIterator{children: children}
}

func (a *andIterator) Next() bool {
	if !a.started {
		a.started = true
		for _, c := range a.children {
			if !c.Next() {
				return false
			}
		}
	} else if !a.children[0].Next() {
		return false
	}
	return a.align()
}

func (a *andIterator) AdvanceTo(doc uint32) bool {
	if !a.started {
		a.started = true
		for _, c := range a.children {
			if !c.AdvanceTo(doc) {
				return false
			}
		}
		return a.align()
	}
	if !a.children[0].AdvanceTo(doc) {
		return false
	}
	return a.align()
}

func (a *andIterator) align() bool {
	for {
		max := a.children[0].DocID()
		for _, c := range a.children[1:] {
			if d := c.DocID(); d > max {
				max = d
			}
		}
		agreed := true
		for _, c := range a.children {
			if c.DocID() != max {
				if !c.AdvanceTo(max) {
					return false
				}
				agreed = false
			}
		}
		if agreed {
			a.doc = max
			return true
		}
	}
}

func (a *andIterator) DocID() uint32 { return a.doc }

func (a *andIterator) Score() float64 {
	var s float64
	for _, c := range a.children {
		s += c.Score()
	}
	return s
}

// orIterator unions its children by doc id: the next match is
// the minimum doc id any live child currently sits on, and every
// child sitting on that doc id is advanced past it.
type orIterator struct {
	children []DocIterator
	alive    []bool
	doc      uint32
	started  bool
}

func newOrIterator(children []DocIterator) *orIterator {
	return &orIterator{children: children, alive: make([]bool, len(children))}
}

func (o *orIterator) Next() bool {
	if !o.started {
		o.started = true
		for i, c := range o.children {
			o.alive[i] = c.Next()
		}
	} else {
		for i, c := range o.children {
			if o.alive[i] && c.DocID() == o.doc {
				o.alive[i] = c.Next()
			}
		}
	}
	return o.settle()
}

func (o *orIterator) AdvanceTo(doc uint32) bool {
	if !o.started {
		o.started = true
		for i, c := range o.children {
			o.alive[i] = c.AdvanceTo(doc)
		}
		return o.settle()
	}
	for i, c := range o.children {
		if o.alive[i] && c.DocID() < doc {
			o.alive[i] = c.AdvanceTo(doc)
		}
	}
	return o.settle()
}

func (o *orIterator) settle() bool {
	min := ^uint32(0)
	found := false
	for i, c := range o.children {
		if !o.alive[i] {
			continue
		}
		if d := c.DocID(); !found || d < min {
			min = d
			found = true
		}
	}
	if !found {
		return false
	}
	o.doc = min
	return true
}

func (o *orIterator) DocID() uint32 { return o.doc }

func (o *orIterator) Score() float64 {
	var s float64
	for i, c := range o.children {
		if o.alive[i] && c.DocID() == o.doc {
			s += c.Score()
		}
	}
	return s
}

// andNotIterator advances by the positive child and skips any
// document matched by one of the subtrahends.
type andNotIterator struct {
	positive    DocIterator
	subtrahends []DocIterator
}

func newAndNotIterator(positive DocIterator, subtrahends []DocIterator) *andNotIterator {
	live := make([]DocIterator, 0, len(subtrahends))
	for _, s := range subtrahends {
		if s.Next() {
			live = append(live, s)
		}
	}
	return &andNotIterator{positive: positive, subtrahends: live}
}

func (d *andNotIterator) Next() bool {
	for {
		if !d.positive.Next() {
			return false
		}
		if !d.excluded(d.positive.DocID()) {
			return true
		}
	}
}

func (d *andNotIterator) AdvanceTo(doc uint32) bool {
	if !d.positive.AdvanceTo(doc) {
		return false
	}
	if !d.excluded(d.positive.DocID()) {
		return true
	}
	return d.Next()
}

func (d *andNotIterator) excluded(doc uint32) bool {
	live := d.subtrahends[:0]
	hit := false
	for _, s := range d.subtrahends {
		if s.DocID() < doc && !s.AdvanceTo(doc) {
			continue // exhausted: drop it, its DocID is no longer valid
		}
		live = append(live, s)
		if s.DocID() == doc {
			hit = true
		}
	}
	d.subtrahends = live
	return hit
}

func (d *andNotIterator) DocID() uint32 { return d.positive.DocID() }
func (d *andNotIterator) Score() float64 { return d.positive.Score() }
