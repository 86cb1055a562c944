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

// Package query implements the boolean query-tree model, the
// canonicalizing normalizer, and the diagnostic printer for a
// full-text search planner over an inverted index.
package query

import "fmt"

// Kind identifies the variant of a Node. The set is closed; see
// Validate for the canonical child-kind rules.
type Kind int

const (
	INVALID Kind = iota
	TERM
	AND
	OR
	NOT
	AND_NOT

	// opaque leaves: treated as atoms by the normalizer and
	// the iterator factory; their own rewrite/iteration rules
	// are out of scope for this package.
	PHRASE
	PREFIX_TERM
	SUFFIX_TERM
	SUBSTRING_TERM
	WAND
)

func (k Kind) String() string {
	switch k {
	case TERM:
		return "TERM"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case AND_NOT:
		return "AND_NOT"
	case PHRASE:
		return "PHRASE"
	case PREFIX_TERM:
		return "PREFIX_TERM"
	case SUFFIX_TERM:
		return "SUFFIX_TERM"
	case SUBSTRING_TERM:
		return "SUBSTRING_TERM"
	case WAND:
		return "WAND"
	default:
		return "INVALID"
	}
}

// IsOpaque reports whether k is one of the leaf kinds the
// normalizer and iterator factory treat atomically.
func (k Kind) IsOpaque() bool {
	switch k {
	case PHRASE, PREFIX_TERM, SUFFIX_TERM, SUBSTRING_TERM, WAND:
		return true
	}
	return false
}

// Node is the common interface satisfied by every query-tree
// node. A Node is either a leaf (Term or an opaque leaf) or a
// composite (And, Or, Not, AndNot) with one or more children.
//
// Every node in a tree is owned by exactly one parent slot; the
// normalizer takes ownership of its input root and returns
// ownership of its output root, reusing or replacing nodes as
// it goes (see Normalize).
type Node interface {
	Kind() Kind
	Weight() float64
	Equals(Node) bool

	// children returns the node's children in order, or nil
	// for a leaf. Callers outside this package should not rely
	// on this method; it exists so the normalizer, the printer
	// and the search package's factory can walk the tree
	// without a type switch on every concrete type.
	children() []Node
}

// Term is a TERM leaf: a lookup of term within column.
type Term struct {
	Column string
	Term   string
	W      float64
}

// NewTerm builds a Term leaf with the default weight of 1.0.
func NewTerm(column, term string) *Term {
	return &Term{Column: column, Term: term, W: 1.0}
}

func (t *Term) Kind() Kind        { return TERM }
func (t *Term) Weight() float64   { return t.W }
func (t *Term) children() []Node  { return nil }
func (t *Term) String() string    { return Print(t) }

func (t *Term) Equals(n Node) bool {
	o, ok := n.(*Term)
	return ok && t.Column == o.Column && t.Term == o.Term && t.W == o.W
}

// Opaque is a leaf of one of the kinds the normalizer cannot
// destructure: PHRASE, PREFIX_TERM, SUFFIX_TERM, SUBSTRING_TERM,
// or WAND. Payload is an opaque, kind-specific encoding (e.g. the
// phrase text, or the prefix string); this package never
// interprets it.
type Opaque struct {
	K       Kind
	Column  string
	Payload string
	W       float64
}

// NewOpaque builds an opaque leaf of the given kind with the
// default weight of 1.0. k must be one of the opaque kinds;
// NewOpaque panics otherwise, since that would be a programming
// error in the caller, not a malformed query.
func NewOpaque(k Kind, column, payload string) *Opaque {
	if !k.IsOpaque() {
		panic(fmt.Sprintf("query: NewOpaque called with non-opaque kind %v", k))
	}
	return &Opaque{K: k, Column: column, Payload: payload, W: 1.0}
}

func (o *Opaque) Kind() Kind       { return o.K }
func (o *Opaque) Weight() float64  { return o.W }
func (o *Opaque) children() []Node { return nil }
func (o *Opaque) String() string   { return Print(o) }

func (o *Opaque) Equals(n Node) bool {
	p, ok := n.(*Opaque)
	return ok && o.K == p.K && o.Column == p.Column && o.Payload == p.Payload && o.W == p.W
}

// Composite is the shared representation for AND, OR, NOT and
// AND_NOT nodes: an ordered, owned sequence of children plus a
// weight. For AND_NOT, Children[0] is the positive branch and
// Children[1:] are the subtrahends.
type Composite struct {
	K        Kind
	Children []Node
	W        float64
}

func newComposite(k Kind, w float64, children ...Node) *Composite {
	return &Composite{K: k, Children: children, W: w}
}

// NewAnd builds an AND node over children, with weight 1.0.
func NewAnd(children ...Node) *Composite { return newComposite(AND, 1.0, children...) }

// NewOr builds an OR node over children, with weight 1.0.
func NewOr(children ...Node) *Composite { return newComposite(OR, 1.0, children...) }

// NewNot builds a NOT node over children, with weight 1.0.
func NewNot(children ...Node) *Composite { return newComposite(NOT, 1.0, children...) }

// NewAndNot builds an AND_NOT node: positive is the retained
// branch, subtrahends are the excluded branches.
func NewAndNot(positive Node, subtrahends ...Node) *Composite {
	return newComposite(AND_NOT, 1.0, append([]Node{positive}, subtrahends...)...)
}

func (c *Composite) Kind() Kind        { return c.K }
func (c *Composite) Weight() float64   { return c.W }
func (c *Composite) children() []Node  { return c.Children }
func (c *Composite) String() string    { return Print(c) }

func (c *Composite) Equals(n Node) bool {
	o, ok := n.(*Composite)
	if !ok || c.K != o.K || c.W != o.W || len(c.Children) != len(o.Children) {
		return false
	}
	for i, ch := range c.Children {
		if !ch.Equals(o.Children[i]) {
			return false
		}
	}
	return true
}

// Children returns the ordered children of n, or nil if n is a
// leaf. It is the exported counterpart of the unexported
// children method used internally by this package and by
// search.CreateSearch.
func Children(n Node) []Node { return n.children() }

// Equal reports whether a and b are structurally identical:
// same kinds, same child order, same term/column/payload
// content and the same weights. It is the oracle used by the
// normalizer's idempotence property tests.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}
