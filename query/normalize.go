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

package query

import "golang.org/x/exp/slices"

// Normalize rewrites root, bottom-up, into the canonical form
// the iterator factory in package search accepts: NOT is pushed
// toward AND, associative AND/OR runs are flattened, and the
// derived AND_NOT operator is introduced wherever a conjunction
// absorbs negated branches. Normalize takes ownership of root;
// the caller must not use root again afterward, since some of
// its nodes may have been spliced directly into the result.
//
// Normalize returns a *MalformedTreeError, *UnsupportedDisjunctionError
// or *UnexpectedKindError (all wrapping one of ErrMalformedTree,
// ErrUnsupportedDisjunction, ErrUnexpectedKind) if root has no
// valid canonical rewriting.
func Normalize(root Node) (Node, error) {
	if root == nil {
		return nil, errMalformed(nil, "nil query tree")
	}
	return normalize(root)
}

func normalize(n Node) (Node, error) {
	switch n.Kind() {
	case TERM:
		return n, nil
	case INVALID:
		return nil, errMalformed(n, "INVALID sentinel node in tree")
	}

	if n.Kind().IsOpaque() {
		// opaque leaves pass through unchanged: same identity,
		// same payload. Their own rewrite rules are out of scope.
		return n, nil
	}

	c, ok := n.(*Composite)
	if !ok {
		return nil, errMalformed(n, "node of kind %v is not a composite", n.Kind())
	}

	kids := make([]Node, len(c.Children))
	for i, ch := range c.Children {
		nk, err := normalize(ch)
		if err != nil {
			return nil, err
		}
		kids[i] = nk
	}

	switch c.K {
	case AND:
		return normalizeAnd(c, kids)
	case OR:
		return normalizeOr(c, kids)
	case NOT:
		return normalizeNot(c, kids)
	case AND_NOT:
		// AND_NOT is never produced by a parser; it only ever
		// arises as normalizer output (as the result of AND's
		// own rewrite, below). Re-running Normalize over an
		// already-canonical tree must be idempotent (testable
		// property 2), so a bare AND_NOT is accepted here as
		// already-canonical and its children are re-validated
		// rather than rejected outright; see DESIGN.md for the
		// tension between this and the "fatal at input" prose.
		return normalizeAndNot(c, kids)
	}
	return nil, errMalformed(n, "unrecognized node kind %v", c.K)
}

// kinds an AND's and_list / OR's or_list may absorb verbatim,
// beyond TERM itself (checked separately) and opaque leaves
// (checked via Kind.IsOpaque).
var andListVerbatim = []Kind{OR}
var orListVerbatim = []Kind{AND, AND_NOT}
var notVerbatim = []Kind{AND, AND_NOT}

func normalizeNot(orig *Composite, kids []Node) (Node, error) {
	if len(kids) < 1 {
		return nil, errMalformed(orig, "NOT requires at least 1 child, got %d", len(kids))
	}
	result := make([]Node, 0, len(kids))
	for _, c := range kids {
		switch {
		case c.Kind() == TERM, c.Kind().IsOpaque(), slices.Contains(notVerbatim, c.Kind()):
			result = append(result, c)
		case c.Kind() == OR:
			// De Morgan: !(a || b) -> splice a, b as flat
			// subtrahends, left for a parent AND to consume.
			result = append(result, c.children()...)
		default:
			return nil, errUnexpectedKind(NOT, c)
		}
	}
	return newComposite(NOT, 1.0, result...), nil
}

func normalizeAnd(orig *Composite, kids []Node) (Node, error) {
	if len(kids) < 2 {
		return nil, errMalformed(orig, "AND requires at least 2 children, got %d", len(kids))
	}
	var andList, notList []Node
	for _, c := range kids {
		switch {
		case c.Kind() == AND:
			andList = append(andList, c.children()...)
		case c.Kind() == TERM, c.Kind().IsOpaque(), slices.Contains(andListVerbatim, c.Kind()):
			andList = append(andList, c)
		case c.Kind() == NOT:
			notList = append(notList, c.children()...)
		case c.Kind() == AND_NOT:
			comp := c.(*Composite)
			first := comp.Children[0]
			if first.Kind() == AND {
				andList = append(andList, first.children()...)
			} else {
				andList = append(andList, first)
			}
			notList = append(notList, comp.Children[1:]...)
		default:
			return nil, errUnexpectedKind(AND, c)
		}
	}
	switch {
	case len(andList) > 0 && len(notList) == 0:
		if len(andList) == 1 {
			return andList[0], nil
		}
		return newComposite(AND, 1.0, andList...), nil
	case len(andList) > 0 && len(notList) > 0:
		positive := collapse(AND, andList)
		return newComposite(AND_NOT, 1.0, append([]Node{positive}, notList...)...), nil
	case len(notList) > 0:
		return newComposite(NOT, 1.0, notList...), nil
	default:
		return nil, errMalformed(orig, "AND produced no children after partitioning")
	}
}

func normalizeOr(orig *Composite, kids []Node) (Node, error) {
	if len(kids) < 2 {
		return nil, errMalformed(orig, "OR requires at least 2 children, got %d", len(kids))
	}
	var orList, notList []Node
	for _, c := range kids {
		switch {
		case c.Kind() == OR:
			orList = append(orList, c.children()...)
		case c.Kind() == TERM, c.Kind().IsOpaque(), slices.Contains(orListVerbatim, c.Kind()):
			orList = append(orList, c)
		case c.Kind() == NOT:
			notList = append(notList, c)
		default:
			return nil, errUnexpectedKind(OR, c)
		}
	}
	switch {
	case len(orList) > 0 && len(notList) > 0:
		return nil, &UnsupportedDisjunctionError{At: orig}
	case len(orList) > 0:
		if len(orList) == 1 {
			return orList[0], nil
		}
		return newComposite(OR, 1.0, orList...), nil
	case len(notList) > 0:
		collapsed := make([]Node, 0, len(notList))
		for _, nt := range notList {
			grandkids := nt.children()
			if len(grandkids) == 1 {
				collapsed = append(collapsed, grandkids[0])
			} else {
				collapsed = append(collapsed, newComposite(OR, 1.0, grandkids...))
			}
		}
		return newComposite(NOT, 1.0, collapse(AND, collapsed)), nil
	default:
		return nil, errMalformed(orig, "OR produced no children after partitioning")
	}
}

func normalizeAndNot(orig *Composite, kids []Node) (Node, error) {
	if len(kids) < 2 {
		return nil, errMalformed(orig, "AND_NOT requires a positive child and at least one subtrahend")
	}
	positive := kids[0]
	switch positive.Kind() {
	case TERM, AND, OR:
	default:
		if !positive.Kind().IsOpaque() {
			return nil, errUnexpectedKind(AND_NOT, positive)
		}
	}
	for _, sub := range kids[1:] {
		switch sub.Kind() {
		case TERM, AND, OR:
		default:
			if !sub.Kind().IsOpaque() {
				return nil, errUnexpectedKind(AND_NOT, sub)
			}
		}
	}
	return newComposite(AND_NOT, 1.0, kids...), nil
}

// collapse returns nodes[0] directly if it is the sole element,
// otherwise wraps nodes in a fresh composite of kind k. This is
// the "single element if size 1, else a fresh AND/OR" collapsing
// rule used by both the AND_NOT-producing branch of AND's
// rewrite and the NOT(AND(...)) branch of OR's rewrite.
func collapse(k Kind, nodes []Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newComposite(k, 1.0, nodes...)
}

// Validate checks that n satisfies the canonical-form invariants
// (permitted child kinds and minimum arity per kind, as encoded
// in the switch below) without performing any rewriting. It is used to
// assert property 1 of the normalizer's testable properties
// directly against Normalize's output.
func Validate(n Node) error {
	switch n.Kind() {
	case TERM:
		return nil
	case INVALID:
		return errMalformed(n, "INVALID sentinel node")
	}
	if n.Kind().IsOpaque() {
		return nil
	}
	c, ok := n.(*Composite)
	if !ok {
		return errMalformed(n, "node of kind %v is not a composite", n.Kind())
	}
	for _, ch := range c.Children {
		if err := Validate(ch); err != nil {
			return err
		}
	}
	switch c.K {
	case AND:
		if len(c.Children) < 2 {
			return errMalformed(n, "AND has %d children, want >= 2", len(c.Children))
		}
		for _, ch := range c.Children {
			if !(ch.Kind() == TERM || ch.Kind() == OR || ch.Kind().IsOpaque()) {
				return errUnexpectedKind(AND, ch)
			}
		}
	case OR:
		if len(c.Children) < 2 {
			return errMalformed(n, "OR has %d children, want >= 2", len(c.Children))
		}
		for _, ch := range c.Children {
			if !(ch.Kind() == TERM || ch.Kind() == AND || ch.Kind() == AND_NOT || ch.Kind().IsOpaque()) {
				return errUnexpectedKind(OR, ch)
			}
		}
	case NOT:
		if len(c.Children) < 1 {
			return errMalformed(n, "NOT has %d children, want >= 1", len(c.Children))
		}
		for _, ch := range c.Children {
			if !(ch.Kind() == TERM || ch.Kind() == AND || ch.Kind() == AND_NOT || ch.Kind().IsOpaque()) {
				return errUnexpectedKind(NOT, ch)
			}
		}
	case AND_NOT:
		if len(c.Children) < 2 {
			return errMalformed(n, "AND_NOT has %d children, want >= 2", len(c.Children))
		}
		for _, ch := range c.Children {
			if !(ch.Kind() == TERM || ch.Kind() == AND || ch.Kind() == OR || ch.Kind().IsOpaque()) {
				return errUnexpectedKind(AND_NOT, ch)
			}
		}
	default:
		return errMalformed(n, "unrecognized composite kind %v", c.K)
	}
	return nil
}
