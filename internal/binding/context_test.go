package binding

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/ambrosia/internal/types"
	"golang.org/x/text/language"
)

func TestContext_PushPopShadowing(t *testing.T) {
	c := New(nil)

	c.Push("row", "outer", "items.[0]")
	c.Push("row", "inner", "")

	if v, ok := c.Lookup("row"); !ok || v != "inner" {
		t.Fatalf("Lookup() = %v, %v; want inner, true", v, ok)
	}
	if _, ok := c.Encoding("row"); ok {
		t.Errorf("Encoding() reported an encoding for a binding pushed without one")
	}

	if err := c.Pop("row"); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if v, _ := c.Lookup("row"); v != "outer" {
		t.Errorf("Lookup() after Pop = %v, want outer", v)
	}
	if enc, ok := c.Encoding("row"); !ok || enc != "items.[0]" {
		t.Errorf("Encoding() = %q, %v; want items.[0], true", enc, ok)
	}

	if err := c.Pop("row"); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if _, ok := c.Lookup("row"); ok {
		t.Error("Lookup() found a binding after the last Pop")
	}
	if len(c.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", c.Names())
	}
}

func TestContext_UnbalancedPop(t *testing.T) {
	c := New(nil)
	err := c.Pop("missing")
	if !errors.Is(err, types.ErrUnbalancedPop) {
		t.Fatalf("Pop() error = %v, want ErrUnbalancedPop", err)
	}
}

func TestContext_With(t *testing.T) {
	c := New(nil)
	boom := errors.New("boom")

	err := c.With("item", 1, "list.[0]", func() error {
		if v, ok := c.Lookup("item"); !ok || v != 1 {
			t.Errorf("Lookup() inside With = %v, %v", v, ok)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("With() error = %v, want boom", err)
	}
	if _, ok := c.Lookup("item"); ok {
		t.Error("With() left the binding in place after fn failed")
	}
}

func TestContext_Names(t *testing.T) {
	c := New(nil)
	c.Push("b", 1, "")
	c.Push("a", 2, "")
	c.Push("b", 3, "")

	if diff := cmp.Diff([]string{"a", "b"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestContext_Options(t *testing.T) {
	c := New(nil, WithLocale(language.French), WithRenderID("0192f5a0-aaaa-7bbb-8ccc-dddddddddddd"))
	if c.Locale != language.French {
		t.Errorf("Locale = %v, want fr", c.Locale)
	}
	if got := c.UniqueID("q"); got != "q-0192f5a0-1" {
		t.Errorf("UniqueID() = %q, want q-0192f5a0-1", got)
	}
	if got := c.UniqueID(""); !strings.HasPrefix(got, "amb-0192f5a0-") {
		t.Errorf("UniqueID(\"\") = %q, want amb- prefix", got)
	}
}

func TestContext_NextIDStrictlyIncreasing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("ids strictly increase and never repeat", prop.ForAll(
		func(n int) bool {
			c := New(nil)
			seen := make(map[int]struct{}, n)
			last := 0
			for i := 0; i < n; i++ {
				id := c.NextID()
				if id <= last {
					return false
				}
				if _, dup := seen[id]; dup {
					return false
				}
				seen[id] = struct{}{}
				last = id
			}
			return true
		},
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t)
}

func TestContext_PushPopBalanced(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("nested push/pop restores each outer binding", prop.ForAll(
		func(depth int) bool {
			c := New(nil)
			for i := 0; i < depth; i++ {
				c.Push("row", i, fmt.Sprintf("items.[%d]", i))
			}
			for i := depth - 1; i >= 0; i-- {
				v, ok := c.Lookup("row")
				if !ok || v != i {
					return false
				}
				enc, _ := c.Encoding("row")
				if enc != fmt.Sprintf("items.[%d]", i) {
					return false
				}
				if err := c.Pop("row"); err != nil {
					return false
				}
			}
			_, ok := c.Lookup("row")
			return !ok
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}
