//go:build property

package istring

import (
	"strings"
	"testing"

	"github.com/conneroisu/istring/pkg/rc"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestIStringProperties validates the content semantics of both variants
func TestIStringProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property: a static value equals the text it was built from
	properties.Property("static round trip", prop.ForAll(
		func(s string) bool {
			v := Static(s)
			return v.EqualString(s) && v.EqualStringPtr(&s) && v.EqualBytes([]byte(s)) && v.String() == s
		},
		gen.AnyString(),
	))

	// Property: an owned value equals the text it was built from
	properties.Property("owned round trip", prop.ForAll(
		func(s string) bool {
			v := FromString(s)
			defer v.Release()
			c := FromBytes([]byte(s))
			defer c.Release()
			return v.EqualString(s) && v.EqualStringPtr(&s) && c.EqualString(s) && c.EqualBytes([]byte(s))
		},
		gen.AnyString(),
	))

	// Property: equality is symmetric across variants and implies equal hashes
	properties.Property("cross variant equality and hashing", prop.ForAll(
		func(s string) bool {
			static := Static(s)
			shared := FromBytes([]byte(s))
			defer shared.Release()
			return static.Equal(shared) && shared.Equal(static) &&
				static.Hash() == shared.Hash() && Compare(static, shared) == 0
		},
		gen.AnyString(),
	))

	// Property: equality agrees with the content of the operands
	properties.Property("equality follows content", prop.ForAll(
		func(a, b string) bool {
			x := FromString(a)
			defer x.Release()
			y := Static(b)
			eq := x.Equal(y)
			if eq != (a == b) {
				return false
			}
			return !eq || x.Hash() == y.Hash()
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	// Property: clones keep the buffer alive until every clone is released
	properties.Property("clones are independent handles", prop.ForAll(
		func(s string, clones int) bool {
			pool := rc.NewPool()
			buf := pool.Copy([]byte(strings.Repeat(s, 2)))
			v := FromShared(buf)
			buf.Release()

			handles := []IString{v}
			for i := 0; i < clones; i++ {
				handles = append(handles, v.Clone())
			}
			for i, h := range handles {
				if pool.Stats().Live != 1 {
					return false
				}
				if i == len(handles)-1 && !h.EqualString(strings.Repeat(s, 2)) {
					return false
				}
				h.Release()
			}
			return pool.Stats().Live == 0
		},
		gen.AnyString(),
		gen.IntRange(0, 20),
	))

	// Property: attribute conversion preserves variant and content
	properties.Property("attribute round trip", prop.ForAll(
		func(s string, shared bool) bool {
			v := Static(s)
			if shared {
				v = FromString(s)
			}
			defer v.Release()

			a := v.Attr()
			defer a.Release()
			back := FromAttr(a)
			defer back.Release()

			return back.Equal(v) && back.IsShared() == v.IsShared()
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
