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

import (
	"errors"
	"fmt"

	"github.com/sneller-contrib/ftsplan/query"
)

// ErrInvalidNormalization is the category for a NOT node
// surviving to CreateSearch. A well-formed normalized root is
// TERM, AND, OR, AND_NOT, or an opaque leaf; a bare NOT reaching
// this package indicates a bug in the normalizer, not a bad
// query, and is fatal.
var ErrInvalidNormalization = errors.New("invalid normalization")

// InvalidNormalizationError wraps ErrInvalidNormalization with
// the offending node for diagnostics.
type InvalidNormalizationError struct {
	At query.Node
}

func (e *InvalidNormalizationError) Error() string {
	return fmt.Sprintf("%s: NOT node reached the iterator factory: %v", ErrInvalidNormalization, e.At.Kind())
}

func (e *InvalidNormalizationError) Unwrap() error { return ErrInvalidNormalization }

// SessionPool is accepted directly from the caller and threaded
// through to every ColumnIndexReader.Lookup call for this
// planning pass.
type Factory struct {
	Table   Table
	Index   IndexReader
	Scorer  Scorer
	Pool    SessionPool
	Opaque  OpaqueLeafBuilder
}

// CreateSearch builds a document-iterator tree from a normalized
// query tree, registering every surviving term leaf with scorer
// in left-to-right order. It returns a nil iterator and a nil
// error if root matches no documents (e.g. every term under it
// failed to resolve).
func CreateSearch(root query.Node, table Table, idx IndexReader, scorer Scorer) (DocIterator, error) {
	f := &Factory{Table: table, Index: idx, Scorer: scorer}
	return f.Build(root)
}

// Build is the Factory-bound equivalent of CreateSearch, letting
// callers supply a SessionPool and an OpaqueLeafBuilder.
func (f *Factory) Build(root query.Node) (DocIterator, error) {
	return f.build(root)
}

func (f *Factory) build(n query.Node) (DocIterator, error) {
	switch n.Kind() {
	case query.TERM:
		return f.buildTerm(n.(*query.Term))
	case query.AND:
		return f.buildAnd(query.Children(n))
	case query.OR:
		return f.buildOr(query.Children(n))
	case query.AND_NOT:
		return f.buildAndNot(query.Children(n))
	case query.NOT:
		return nil, &InvalidNormalizationError{At: n}
	default:
		if n.Kind().IsOpaque() {
			return f.buildOpaque(n)
		}
		return nil, fmt.Errorf("search: unrecognized node kind %v", n.Kind())
	}
}

func (f *Factory) buildTerm(t *query.Term) (DocIterator, error) {
	col, ok := f.Table.ColumnIDByName(t.Column)
	if !ok {
		return nil, nil // absent: unknown column
	}
	cir, ok := f.Index.ColumnIndexReader(col)
	if !ok {
		return nil, nil // absent: column has no index
	}
	post, ok := cir.Lookup(t.Term, f.Pool)
	if !ok {
		return nil, nil // absent: term never occurs in this column
	}
	leaf := &TermDocIterator{post: post, weight: t.Weight(), column: col}
	if f.Scorer != nil {
		f.Scorer.AddDocIterator(leaf, col)
	}
	return leaf, nil
}

func (f *Factory) buildOpaque(n query.Node) (DocIterator, error) {
	if f.Opaque == nil {
		return nil, nil // absent: no builder registered for opaque leaves
	}
	return f.Opaque(n, f.Table, f.Index, f.Scorer)
}

func (f *Factory) buildAnd(children []query.Node) (DocIterator, error) {
	var live []DocIterator
	for _, ch := range children {
		it, err := f.build(ch)
		if err != nil {
			return nil, err
		}
		if it != nil {
			live = append(live, it)
		}
	}
	switch len(live) {
	case 0:
		return nil, nil
	case 1:
		return live[0], nil
	default:
		return newAndIterator(live), nil
	}
}

func (f *Factory) buildOr(children []query.Node) (DocIterator, error) {
	var live []DocIterator
	for _, ch := range children {
		it, err := f.build(ch)
		if err != nil {
			return nil, err
		}
		if it != nil {
			live = append(live, it)
		}
	}
	switch len(live) {
	case 0:
		return nil, nil
	case 1:
		return live[0], nil
	default:
		return newOrIterator(live), nil
	}
}

func (f *Factory) buildAndNot(children []query.Node) (DocIterator, error) {
	positive, err := f.build(children[0])
	if err != nil {
		return nil, err
	}
	if positive == nil {
		return nil, nil // absent: nothing to subtract from
	}
	var live []DocIterator
	for _, ch := range children[1:] {
		it, err := f.build(ch)
		if err != nil {
			return nil, err
		}
		if it != nil {
			live = append(live, it)
		}
	}
	if len(live) == 0 {
		return positive, nil
	}
	return newAndNotIterator(positive, live), nil
}

// Count drains it, returning the number of matching documents.
// A convenience for callers (such as cmd/queryplan) that only
// want a match count rather than the doc ids themselves.
func Count(it DocIterator) int {
	if it == nil {
		return 0
	}
	n := 0
	for it.Next() {
		n++
	}
	return n
}
