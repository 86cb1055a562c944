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

import (
	"errors"
	"fmt"
)

// Sentinel error categories. Use errors.Is against these to
// classify a normalization failure without depending on the
// offending node; the returned error also carries the node and
// a human-readable message, and reports its category through its
// Unwrap method, mirroring
// sneller/expr's TypeError/SyntaxError convention of attaching
// the offending AST node to a struct-based error.
var (
	// ErrMalformedTree is the category for arity violations
	// (AND/OR with fewer than 2 children, NOT with zero
	// children, AND_NOT without a subtrahend) and for INVALID or
	// unrecognized nodes. An input AND_NOT with valid children is
	// accepted as already canonical, not rejected.
	ErrMalformedTree = errors.New("malformed query tree")

	// ErrUnsupportedDisjunction is the category for an OR that
	// mixes positive and negated branches.
	ErrUnsupportedDisjunction = errors.New("unsupported disjunction")

	// ErrUnexpectedKind is the category for a child of a
	// recognized kind appearing where the canonical-form tables
	// forbid it.
	ErrUnexpectedKind = errors.New("unexpected node kind")
)

// MalformedTreeError reports an arity or shape violation.
type MalformedTreeError struct {
	At  Node
	Msg string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedTree, e.Msg)
}

func (e *MalformedTreeError) Unwrap() error { return ErrMalformedTree }

func errMalformed(at Node, format string, args ...any) error {
	return &MalformedTreeError{At: at, Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedDisjunctionError reports an OR mixing positive and
// negated branches, which has no representation in the AND_NOT
// algebra without a universe scan.
type UnsupportedDisjunctionError struct {
	At Node
}

func (e *UnsupportedDisjunctionError) Error() string {
	return fmt.Sprintf("%s: OR mixes positive and negated branches", ErrUnsupportedDisjunction)
}

func (e *UnsupportedDisjunctionError) Unwrap() error { return ErrUnsupportedDisjunction }

// UnexpectedKindError reports a child whose kind is not
// permitted under its parent by the canonical-form tables.
type UnexpectedKindError struct {
	Parent Kind
	Child  Node
}

func (e *UnexpectedKindError) Error() string {
	return fmt.Sprintf("%s: %v is not a valid child of %v", ErrUnexpectedKind, e.Child.Kind(), e.Parent)
}

func (e *UnexpectedKindError) Unwrap() error { return ErrUnexpectedKind }

func errUnexpectedKind(parent Kind, child Node) error {
	return &UnexpectedKindError{Parent: parent, Child: child}
}
