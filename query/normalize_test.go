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
	"testing"
)

// term is a small helper, in the spirit of expr_test.go's casen/apply2
// helpers, for building single-letter TERM leaves in test trees.
func term(name string) *Term { return NewTerm("body", name) }

func TestNormalizeScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   Node
		want Node
	}{
		{
			name: "and of term and not",
			in:   NewAnd(term("a"), NewNot(term("b"))),
			want: NewAndNot(term("a"), term("b")),
		},
		{
			name: "and of term and nested and-of-nots",
			in:   NewAnd(term("a"), NewAnd(NewNot(term("b")), NewNot(term("c")))),
			want: NewAndNot(term("a"), term("b"), term("c")),
		},
		{
			name: "and of term and or-of-nots",
			in:   NewAnd(term("a"), NewOr(NewNot(term("b")), NewNot(term("c")))),
			want: NewAndNot(term("a"), NewAnd(term("b"), term("c"))),
		},
		{
			name: "and of nested and and or of or",
			in: NewAnd(
				NewAnd(term("a"), term("b")),
				NewOr(term("c"), NewOr(term("d"), term("e"))),
			),
			want: NewAnd(term("a"), term("b"), NewOr(term("c"), term("d"), term("e"))),
		},
		{
			name: "or of nots de-morgans into not of and",
			in:   NewOr(NewNot(term("a")), NewNot(NewOr(term("b"), term("c")))),
			want: NewNot(NewAnd(term("a"), NewOr(term("b"), term("c")))),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize: unexpected error: %v", err)
			}
			if !Equal(got, tc.want) {
				t.Fatalf("Normalize(%s) =\n%s\nwant\n%s", tc.name, Print(got), Print(tc.want))
			}
		})
	}
}

func TestNormalizeRejectsMixedDisjunction(t *testing.T) {
	_, err := Normalize(NewOr(term("a"), NewNot(term("b"))))
	if !errors.Is(err, ErrUnsupportedDisjunction) {
		t.Fatalf("want ErrUnsupportedDisjunction, got %v", err)
	}
}

func TestNormalizeRejectsNestedMixedDisjunction(t *testing.T) {
	_, err := Normalize(NewAnd(term("a"), NewOr(NewNot(term("b")), term("c"))))
	if !errors.Is(err, ErrUnsupportedDisjunction) {
		t.Fatalf("want ErrUnsupportedDisjunction, got %v", err)
	}
}

func TestNormalizeRejectsShortAnd(t *testing.T) {
	_, err := Normalize(NewAnd(term("a")))
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("want ErrMalformedTree, got %v", err)
	}
}

func TestNormalizeRejectsShortOr(t *testing.T) {
	_, err := Normalize(NewOr(term("a")))
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("want ErrMalformedTree, got %v", err)
	}
}

func TestNormalizeRejectsEmptyNot(t *testing.T) {
	_, err := Normalize(NewNot())
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("want ErrMalformedTree, got %v", err)
	}
}

func TestNormalizeRootLevelNotIsProduced(t *testing.T) {
	// OR(NOT(a), NOT(OR(b, c))) normalizes successfully to a root
	// NOT; per the design notes, rejecting it is the iterator
	// factory's job, not the normalizer's.
	got, err := Normalize(NewOr(NewNot(term("a")), NewNot(NewOr(term("b"), term("c")))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != NOT {
		t.Fatalf("want root kind NOT, got %v", got.Kind())
	}
}

func TestOpaqueLeafPassesThroughUnchanged(t *testing.T) {
	ph := NewOpaque(PHRASE, "body", "hello world")
	in := NewAnd(term("a"), ph)
	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := got.(*Composite)
	if !ok || c.K != AND || len(c.Children) != 2 {
		t.Fatalf("unexpected normalization result: %s", Print(got))
	}
	if c.Children[1] != Node(ph) {
		t.Fatalf("opaque leaf identity changed during normalization")
	}
}

func TestValidateAcceptsNormalizedOutput(t *testing.T) {
	trees := []Node{
		NewAnd(term("a"), NewNot(term("b"))),
		NewAnd(term("a"), NewAnd(NewNot(term("b")), NewNot(term("c")))),
		NewAnd(
			NewAnd(term("a"), term("b")),
			NewOr(term("c"), NewOr(term("d"), term("e"))),
		),
		NewOr(NewNot(term("a")), NewNot(NewOr(term("b"), term("c")))),
	}
	for i, tr := range trees {
		got, err := Normalize(tr)
		if err != nil {
			t.Fatalf("case %d: Normalize: %v", i, err)
		}
		if err := Validate(got); err != nil {
			t.Fatalf("case %d: Validate(%s): %v", i, Print(got), err)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	trees := []Node{
		NewAnd(term("a"), NewNot(term("b"))),
		NewAnd(term("a"), NewAnd(NewNot(term("b")), NewNot(term("c")))),
		NewAnd(term("a"), NewOr(NewNot(term("b")), NewNot(term("c")))),
		NewAnd(
			NewAnd(term("a"), term("b")),
			NewOr(term("c"), NewOr(term("d"), term("e"))),
		),
		NewOr(NewNot(term("a")), NewNot(NewOr(term("b"), term("c")))),
	}
	for i, tr := range trees {
		once, err := Normalize(tr)
		if err != nil {
			t.Fatalf("case %d: first Normalize: %v", i, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("case %d: second Normalize: %v", i, err)
		}
		if !Equal(once, twice) {
			t.Fatalf("case %d: normalize not idempotent:\n%s\nvs\n%s", i, Print(once), Print(twice))
		}
	}
}

// evalBool evaluates n under the ordinary boolean interpretation
// given an assignment of term name -> boolean, with AND_NOT(a;
// b1..bn) read as a && !b1 && ... && !bn.
func evalBool(n Node, assign map[string]bool) bool {
	switch t := n.(type) {
	case *Term:
		return assign[t.Term]
	case *Composite:
		switch t.K {
		case AND:
			for _, c := range t.Children {
				if !evalBool(c, assign) {
					return false
				}
			}
			return true
		case OR:
			for _, c := range t.Children {
				if evalBool(c, assign) {
					return true
				}
			}
			return false
		case NOT:
			for _, c := range t.Children {
				if evalBool(c, assign) {
					return false
				}
			}
			return true
		case AND_NOT:
			if !evalBool(t.Children[0], assign) {
				return false
			}
			for _, c := range t.Children[1:] {
				if evalBool(c, assign) {
					return false
				}
			}
			return true
		}
	}
	panic("evalBool: unreachable")
}

func TestNormalizePreservesSemantics(t *testing.T) {
	trees := []Node{
		NewAnd(term("a"), NewNot(term("b"))),
		NewAnd(term("a"), NewAnd(NewNot(term("b")), NewNot(term("c")))),
		NewAnd(term("a"), NewOr(NewNot(term("b")), NewNot(term("c")))),
		NewAnd(
			NewAnd(term("a"), term("b")),
			NewOr(term("c"), NewOr(term("d"), term("e"))),
		),
	}
	names := []string{"a", "b", "c", "d", "e"}
	for i, tr := range trees {
		got, err := Normalize(cloneTree(tr))
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		for mask := 0; mask < 1<<len(names); mask++ {
			assign := map[string]bool{}
			for j, name := range names {
				assign[name] = mask&(1<<j) != 0
			}
			if evalBool(tr, assign) != evalBool(got, assign) {
				t.Fatalf("case %d: semantic mismatch under %v: pre=%v post=%v", i, assign,
					evalBool(tr, assign), evalBool(got, assign))
			}
		}
	}
}

// cloneTree deep-copies a tree so callers can normalize it while
// keeping the original around for the pre-normalization oracle
// evaluation, since Normalize takes ownership of its argument.
func cloneTree(n Node) Node {
	switch t := n.(type) {
	case *Term:
		cp := *t
		return &cp
	case *Opaque:
		cp := *t
		return &cp
	case *Composite:
		kids := make([]Node, len(t.Children))
		for i, c := range t.Children {
			kids[i] = cloneTree(c)
		}
		return &Composite{K: t.K, W: t.W, Children: kids}
	}
	return n
}
