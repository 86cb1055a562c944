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
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// fixed key pair used purely for fingerprint stability across a
// process lifetime, not for any security property; mirrors
// expr.redactBuf's fixed (k0, k1) in the teacher package.
const (
	fpK0, fpK1 = 0, 1
)

// Fingerprint computes a stable, order-sensitive hash of a
// normalized tree's shape, term/column content and weights. The
// planner can use it to key a cache of repeated subqueries
// without re-running Normalize or CreateSearch; it is not
// cryptographically secure.
func Fingerprint(n Node) uint64 {
	h := uint64(0xcbf29ce484222325)
	fingerprint(n, &h)
	return h
}

func fingerprint(n Node, h *uint64) {
	mix(h, []byte(n.Kind().String()))
	mixFloat(h, n.Weight())
	switch t := n.(type) {
	case *Term:
		mix(h, []byte(t.Column))
		mix(h, []byte(t.Term))
	case *Opaque:
		mix(h, []byte(t.Column))
		mix(h, []byte(t.Payload))
	case *Composite:
		for _, c := range t.Children {
			fingerprint(c, h)
		}
	}
}

func mix(h *uint64, buf []byte) {
	*h = siphash.Hash(fpK0, fpK1^*h, buf)
}

func mixFloat(h *uint64, f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	mix(h, buf[:])
}
