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

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		INVALID:        "INVALID",
		TERM:           "TERM",
		AND:            "AND",
		AND_NOT:        "AND_NOT",
		OR:             "OR",
		NOT:            "NOT",
		WAND:           "WAND",
		PHRASE:         "PHRASE",
		PREFIX_TERM:    "PREFIX_TERM",
		SUFFIX_TERM:    "SUFFIX_TERM",
		SUBSTRING_TERM: "SUBSTRING_TERM",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestNewTermDefaultWeight(t *testing.T) {
	tm := NewTerm("body", "hello")
	if tm.Weight() != 1.0 {
		t.Fatalf("default weight = %v, want 1.0", tm.Weight())
	}
}

func TestOpaquePanicsOnNonOpaqueKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-opaque kind")
		}
	}()
	NewOpaque(TERM, "body", "x")
}

func TestEquals(t *testing.T) {
	a1 := NewTerm("body", "a")
	a2 := NewTerm("body", "a")
	b := NewTerm("body", "b")
	if !Equal(a1, a2) {
		t.Fatal("identical terms should be equal")
	}
	if Equal(a1, b) {
		t.Fatal("distinct terms should not be equal")
	}

	and1 := NewAnd(a1, b)
	and2 := NewAnd(a2, NewTerm("body", "b"))
	if !Equal(and1, and2) {
		t.Fatal("structurally identical composites should be equal")
	}

	or1 := NewOr(a1, b)
	if Equal(and1, or1) {
		t.Fatal("AND and OR of the same children should not be equal")
	}
}

func TestChildrenHelper(t *testing.T) {
	a, b := NewTerm("body", "a"), NewTerm("body", "b")
	n := NewAnd(a, b)
	kids := Children(n)
	if len(kids) != 2 || kids[0] != Node(a) || kids[1] != Node(b) {
		t.Fatalf("Children returned unexpected result: %v", kids)
	}
	if Children(a) != nil {
		t.Fatalf("Children of a leaf should be nil")
	}
}
