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

// Command queryplan normalizes a YAML-encoded boolean query tree
// and prints its canonical diagnostic form, optionally running it
// against a YAML (and optionally zstd-compressed) fake posting-list
// fixture and printing the number of matching documents.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"sigs.k8s.io/yaml"

	"github.com/sneller-contrib/ftsplan/query"
	"github.com/sneller-contrib/ftsplan/search"
)

func main() {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	file := flags.String("f", "", "YAML file containing the query tree (required)")
	fakeIndex := flags.String("fake-index", "", "YAML (optionally zstd-compressed) fixture describing posting lists")
	verbose := flags.Bool("v", false, "print the tree both before and after normalization")
	flags.Parse(os.Args[1:])

	if *file == "" {
		log.Fatalf("usage: %s -f query.yaml [-fake-index fixture.yaml.zst] [-v]", os.Args[0])
	}

	planID := uuid.New().String()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("plan %s: reading %s: %v", planID, *file, err)
	}
	tree, err := decodeTree(raw)
	if err != nil {
		log.Fatalf("plan %s: decoding query tree: %v", planID, err)
	}
	if *verbose {
		fmt.Printf("plan %s: input tree:\n%s\n", planID, query.Print(tree))
	}

	normalized, err := query.Normalize(tree)
	if err != nil {
		log.Fatalf("plan %s: normalize: %v", planID, err)
	}
	fmt.Printf("plan %s: canonical tree (fingerprint %x):\n%s\n", planID, query.Fingerprint(normalized), query.Print(normalized))

	if *fakeIndex == "" {
		return
	}
	table, idx, err := loadFakeIndex(*fakeIndex)
	if err != nil {
		log.Fatalf("plan %s: loading fake index %s: %v", planID, *fakeIndex, err)
	}
	scorer := &loggingScorer{planID: planID}
	it, err := search.CreateSearch(normalized, table, idx, scorer)
	if err != nil {
		log.Fatalf("plan %s: create search: %v", planID, err)
	}
	n := search.Count(it)
	fmt.Printf("plan %s: %d matching documents\n", planID, n)
}

// loggingScorer logs every term registration, mirroring the way
// cmd/snellerd's request handlers log per-request activity under
// a queryID.
type loggingScorer struct {
	planID string
}

func (s *loggingScorer) AddDocIterator(it *search.TermDocIterator, column search.ColumnID) {
	log.Printf("plan %s: registered term iterator for column %d, weight %g", s.planID, column, it.Weight())
}

// treeYAML is the on-disk shape of a query tree: a superset of
// every node kind's fields, with the irrelevant ones omitted.
type treeYAML struct {
	Kind     string     `json:"kind"`
	Column   string     `json:"column,omitempty"`
	Term     string     `json:"term,omitempty"`
	Payload  string     `json:"payload,omitempty"`
	Weight   float64    `json:"weight,omitempty"`
	Children []treeYAML `json:"children,omitempty"`
}

func decodeTree(raw []byte) (query.Node, error) {
	var t treeYAML
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return t.toNode()
}

func (t treeYAML) toNode() (query.Node, error) {
	w := t.Weight
	if w == 0 {
		w = 1.0
	}
	switch t.Kind {
	case "TERM":
		return &query.Term{Column: t.Column, Term: t.Term, W: w}, nil
	case "PHRASE", "PREFIX_TERM", "SUFFIX_TERM", "SUBSTRING_TERM", "WAND":
		k, err := opaqueKind(t.Kind)
		if err != nil {
			return nil, err
		}
		return &query.Opaque{K: k, Column: t.Column, Payload: t.Payload, W: w}, nil
	case "AND", "OR", "NOT", "AND_NOT":
		kids := make([]query.Node, len(t.Children))
		for i, c := range t.Children {
			n, err := c.toNode()
			if err != nil {
				return nil, err
			}
			kids[i] = n
		}
		k, err := compositeKind(t.Kind)
		if err != nil {
			return nil, err
		}
		return &query.Composite{K: k, Children: kids, W: w}, nil
	default:
		return nil, fmt.Errorf("queryplan: unrecognized node kind %q", t.Kind)
	}
}

func opaqueKind(s string) (query.Kind, error) {
	switch s {
	case "PHRASE":
		return query.PHRASE, nil
	case "PREFIX_TERM":
		return query.PREFIX_TERM, nil
	case "SUFFIX_TERM":
		return query.SUFFIX_TERM, nil
	case "SUBSTRING_TERM":
		return query.SUBSTRING_TERM, nil
	case "WAND":
		return query.WAND, nil
	}
	return query.INVALID, fmt.Errorf("queryplan: not an opaque kind: %q", s)
}

func compositeKind(s string) (query.Kind, error) {
	switch s {
	case "AND":
		return query.AND, nil
	case "OR":
		return query.OR, nil
	case "NOT":
		return query.NOT, nil
	case "AND_NOT":
		return query.AND_NOT, nil
	}
	return query.INVALID, fmt.Errorf("queryplan: not a composite kind: %q", s)
}

// fixtureYAML maps column name -> term -> sorted doc ids.
type fixtureYAML map[string]map[string][]uint32

func loadFakeIndex(path string) (search.Table, search.IndexReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var raw []byte
	if zstdMagic(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, err
		}
		defer dec.Close()
		raw, err = io.ReadAll(dec)
		if err != nil {
			return nil, nil, err
		}
	} else {
		raw, err = io.ReadAll(f)
		if err != nil {
			return nil, nil, err
		}
	}

	var fixture fixtureYAML
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, nil, err
	}

	table := make(fakeTable, len(fixture))
	idx := make(fakeIndexReader, len(fixture))
	id := search.ColumnID(0)
	for col, terms := range fixture {
		table[col] = id
		cir := make(fakeColumnIndexReader, len(terms))
		for term, docs := range terms {
			cir[term] = docs
		}
		idx[id] = cir
		id++
	}
	return table, idx, nil
}

func zstdMagic(path string) bool {
	n := len(path)
	return n >= 4 && path[n-4:] == ".zst"
}

type fakeTable map[string]search.ColumnID

func (t fakeTable) ColumnIDByName(name string) (search.ColumnID, bool) {
	id, ok := t[name]
	return id, ok
}

type fakePostingIterator struct {
	docs []uint32
	pos  int
}

func (p *fakePostingIterator) Next() bool {
	p.pos++
	return p.pos < len(p.docs)
}

func (p *fakePostingIterator) AdvanceTo(doc uint32) bool {
	for p.pos < len(p.docs) && (p.pos < 0 || p.docs[p.pos] < doc) {
		p.pos++
	}
	return p.pos < len(p.docs)
}

func (p *fakePostingIterator) DocID() uint32 { return p.docs[p.pos] }

type fakeColumnIndexReader map[string][]uint32

func (c fakeColumnIndexReader) Lookup(term string, _ search.SessionPool) (search.PostingIterator, bool) {
	docs, ok := c[term]
	if !ok {
		return nil, false
	}
	return &fakePostingIterator{docs: docs, pos: -1}, true
}

type fakeIndexReader map[search.ColumnID]fakeColumnIndexReader

func (r fakeIndexReader) ColumnIndexReader(id search.ColumnID) (search.ColumnIndexReader, bool) {
	c, ok := r[id]
	return c, ok
}
