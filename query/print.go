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
	"fmt"
	"io"
	"strings"
)

// Print renders n as a deterministic, byte-stable tree using
// Unicode box-drawing connectors, suitable for logging and as a
// golden-file test oracle. The indentation scheme follows
// plan.Tree's tabify/tabline helpers, adapted from tab
// indentation to box-drawing connectors.
func Print(n Node) string {
	var b strings.Builder
	b.WriteString(label(n))
	b.WriteByte('\n')
	writeChildren(&b, n, "")
	return b.String()
}

// Fprint writes the same rendering Print produces to dst.
func Fprint(dst io.Writer, n Node) error {
	_, err := io.WriteString(dst, Print(n))
	return err
}

func writeChildren(b *strings.Builder, n Node, prefix string) {
	kids := n.children()
	for i, c := range kids {
		last := i == len(kids)-1
		writeNode(b, c, prefix, last)
	}
}

func writeNode(b *strings.Builder, n Node, prefix string, isLast bool) {
	connector := "├── "
	nextPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		nextPrefix = prefix + "    "
	}
	b.WriteString(prefix)
	b.WriteString(connector)
	b.WriteString(label(n))
	b.WriteByte('\n')
	writeChildren(b, n, nextPrefix)
}

func label(n Node) string {
	switch t := n.(type) {
	case *Term:
		return fmt.Sprintf("%s weight=%g column=%q term=%q", t.Kind(), t.W, t.Column, t.Term)
	case *Opaque:
		return fmt.Sprintf("%s weight=%g column=%q payload=%q", t.Kind(), t.W, t.Column, t.Payload)
	case *Composite:
		return fmt.Sprintf("%s weight=%g children=%d", t.Kind(), t.W, len(t.Children))
	default:
		return fmt.Sprintf("%s weight=%g", n.Kind(), n.Weight())
	}
}
