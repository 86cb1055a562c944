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

// Package search turns a normalized query.Node tree into a tree
// of document iterators over per-column posting lists, wiring
// term leaves to an external column index reader and relevance
// scorer. The on-disk posting format, the column index reader
// implementation and the scorer's ranking math are all external
// collaborators; this package only calls their contracts.
package search

import "github.com/sneller-contrib/ftsplan/query"

// ColumnID identifies a column within the table catalog.
type ColumnID uint32

// Table resolves a column name to the catalog's internal id.
type Table interface {
	ColumnIDByName(name string) (ColumnID, bool)
}

// SessionPool is the external, session-scoped pool that owns
// PostingIterator lifetimes. This package treats it as opaque
// and only threads it through to ColumnIndexReader.Lookup.
type SessionPool interface{}

// PostingIterator is the sorted sequence of document ids for a
// single term in a single column, owned by the session pool.
type PostingIterator interface {
	Next() bool
	AdvanceTo(doc uint32) bool
	DocID() uint32
}

// ColumnIndexReader is the per-column handle into the inverted
// index for one column.
type ColumnIndexReader interface {
	Lookup(term string, pool SessionPool) (PostingIterator, bool)
}

// IndexReader maps a column id to its ColumnIndexReader.
type IndexReader interface {
	ColumnIndexReader(id ColumnID) (ColumnIndexReader, bool)
}

// Scorer accumulates per-term statistics registered at planning
// time. The factory only appends leaf iterators to it, in the
// left-to-right order they appear in the normalized tree; it
// never computes a score itself.
type Scorer interface {
	AddDocIterator(iter *TermDocIterator, column ColumnID)
}

// DocIterator is the capability set every node in the
// constructed search tree exposes to its caller and to its
// parent composite iterator.
type DocIterator interface {
	// Next advances to the next matching document, reporting
	// whether one was found.
	Next() bool
	// AdvanceTo skips forward to the first matching document
	// with id >= doc, reporting whether one was found.
	AdvanceTo(doc uint32) bool
	// DocID returns the current document id; valid only after
	// Next or AdvanceTo has returned true.
	DocID() uint32
	// Score returns this subtree's contribution to relevance;
	// composite iterators combine their children's scores, leaf
	// iterators report their configured weight. The scorer's own
	// BM25/TF-IDF math is computed externally, out of scope here.
	Score() float64
}

// OpaqueLeafBuilder builds a DocIterator for one of the opaque
// leaf kinds (PHRASE, PREFIX_TERM, SUFFIX_TERM, SUBSTRING_TERM,
// WAND), whose rewrite and iteration rules this package does not
// specify. Grounded on zoekt's NewMatchTree(q, atom), which takes
// exactly this kind of callback for leaf kinds its own switch
// doesn't recognize. A nil builder makes every opaque leaf
// absent, which is a safe, conservative default.
type OpaqueLeafBuilder func(n query.Node, table Table, idx IndexReader, scorer Scorer) (DocIterator, error)
