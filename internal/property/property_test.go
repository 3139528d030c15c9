package property

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/types"
)

type item struct {
	Label string
	Tags  []string
	Count int32
	Total int64
	Ready bool
	Flags []bool
	Due   time.Time
	Doc   Upload
	Notes []*string
}

var itemSchema = NewSchema[item]().
	Text("label", func(i *item) string { return i.Label }, func(i *item, v *string) {
		if v == nil {
			i.Label = ""
			return
		}
		i.Label = *v
	}).
	TextList("tags", func(i *item) []string { return i.Tags }, nil).
	TextList("notes", func(i *item) []string {
		out := make([]string, 0, len(i.Notes))
		for _, n := range i.Notes {
			if n != nil {
				out = append(out, *n)
			}
		}
		return out
	}, func(i *item, v []*string) { i.Notes = v }).
	Int("count", func(i *item) int32 { return i.Count }, func(i *item, v *int32) {
		if v != nil {
			i.Count = *v
		}
	}).
	Long("total", func(i *item) int64 { return i.Total }, func(i *item, v *int64) {
		if v != nil {
			i.Total = *v
		}
	}).
	Bool("ready", func(i *item) bool { return i.Ready }, func(i *item, v *bool) {
		i.Ready = v != nil && *v
	}).
	BoolList("flags", func(i *item) []bool { return i.Flags }, func(i *item, v []*bool) {
		i.Flags = i.Flags[:0]
		for _, b := range v {
			i.Flags = append(i.Flags, b != nil && *b)
		}
	}).
	Time("due", func(i *item) time.Time { return i.Due }, func(i *item, v *time.Time) {
		if v != nil {
			i.Due = *v
		}
	}).
	File("doc", func(i *item) Upload { return i.Doc }, func(i *item, u Upload) { i.Doc = u }).
	Value("self", func(i *item) any { return i })

func (i *item) Property(name string) (any, bool) { return itemSchema.Get(i, name) }
func (i *item) Setter(name string) (Setter, bool) { return itemSchema.Setter(i, name) }

type basket struct {
	Items []*item
	Meta  map[string]string
}

var basketSchema = NewSchema[basket]().
	Value("items", func(b *basket) any { return b.Items }).
	Value("meta", func(b *basket) any { return b.Meta })

func (b *basket) Property(name string) (any, bool) { return basketSchema.Get(b, name) }

func newBasket(n int) *basket {
	b := &basket{Meta: map[string]string{"owner": "ada"}}
	for i := 0; i < n; i++ {
		b.Items = append(b.Items, &item{Label: fmt.Sprintf("item-%d", i)})
	}
	return b
}

type stubMessages map[string]string

func (m stubMessages) Message(_ language.Tag, key string, args ...any) (string, bool) {
	tmpl, ok := m[key]
	if !ok {
		return "", false
	}
	for i, a := range args {
		tmpl = strings.ReplaceAll(tmpl, fmt.Sprintf("{%d}", i), fmt.Sprint(a))
	}
	return tmpl, true
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		binding string
		segs    int
		wantErr error
	}{
		{name: "rooted", in: "${row}.items.[2].label", want: "${row}.items.[2].label", binding: "row", segs: 3},
		{name: "unrooted", in: "items.[2].label", want: "items.[2].label", segs: 3},
		{name: "compact index normalised", in: "items[2].label", want: "items.[2].label", segs: 3},
		{name: "binding only", in: "${row}", want: "${row}", binding: "row"},
		{name: "leading index", in: "[0].name", want: "[0].name", segs: 2},
		{name: "empty", in: "", wantErr: types.ErrInvalidPath},
		{name: "empty segment", in: "a..b", wantErr: types.ErrInvalidPath},
		{name: "unterminated binding", in: "${row.items", wantErr: types.ErrInvalidPath},
		{name: "negative index", in: "items.[-1]", wantErr: types.ErrInvalidPath},
		{name: "bad index", in: "items.[x]", wantErr: types.ErrInvalidPath},
		{name: "too deep", in: strings.Repeat("a.", types.MaxPathDepth) + "a", wantErr: types.ErrPathTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if p.Binding != tt.binding {
				t.Errorf("Binding = %q, want %q", p.Binding, tt.binding)
			}
			if len(p.Segments) != tt.segs {
				t.Errorf("len(Segments) = %d, want %d", len(p.Segments), tt.segs)
			}
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse() did not panic on invalid path")
		}
	}()
	MustParse("a..b")
}

func TestRead_IndexBounds(t *testing.T) {
	r := NewResolver()
	p := MustParse("${row}.items.[2].label")

	tests := []struct {
		name  string
		items int
		want  string
		found bool
	}{
		{name: "five elements", items: 5, want: "item-2", found: true},
		{name: "two elements", items: 2, found: false},
		{name: "no elements", items: 0, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := binding.New(nil)
			ctx.Push("row", newBasket(tt.items), "")
			v, ok := r.Read(p, ctx, nil)
			if ok != tt.found {
				t.Fatalf("Read() found = %v, want %v", ok, tt.found)
			}
			if ok && v.String() != tt.want {
				t.Errorf("Read() = %q, want %q", v.String(), tt.want)
			}
		})
	}
}

func TestRead_Roots(t *testing.T) {
	r := NewResolver()
	ctx := binding.New(nil)
	focus := newBasket(1)

	if v, ok := r.Read(MustParse("meta.owner"), ctx, focus); !ok || v.String() != "ada" {
		t.Errorf("Read(focus) = %v, %v", v, ok)
	}
	if _, ok := r.Read(MustParse("${nobody}.meta"), ctx, focus); ok {
		t.Error("Read() with unbound root should be MISSING")
	}
	if _, ok := r.Read(MustParse("meta.absent"), ctx, focus); ok {
		t.Error("Read() of absent map key should be MISSING")
	}
	if _, ok := r.Read(MustParse("items.[0].label.deeper"), ctx, focus); ok {
		t.Error("Read() past a scalar should be MISSING")
	}

	ctx.Push("b", focus, "")
	obj := r.ReadObject(MustParse("${b}"), ctx, nil)
	if obj != focus {
		t.Errorf("ReadObject() of zero-segment path = %v, want root", obj)
	}
}

func TestRead_MissingValues(t *testing.T) {
	r := NewResolver()
	focus := map[string]any{"status": "n/a", "name": "x", "nothing": nil}

	if _, ok := r.Read(MustParse("status", WithMissing("n/a", "-")), nil, focus); ok {
		t.Error("Read() of a missing-value string should be MISSING")
	}
	if _, ok := r.Read(MustParse("nothing"), nil, focus); ok {
		t.Error("Read() of nil terminal should be MISSING")
	}
	if got := r.ReadObject(MustParse("status", WithMissing("n/a")), nil, focus); got != "n/a" {
		t.Errorf("ReadObject() = %v, want raw value", got)
	}
}

func TestRead_MissingIsIdempotent(t *testing.T) {
	r := NewResolver(WithMessages(stubMessages{}))
	p := MustParse("${row}.items.[9].label")
	ctx := binding.New(nil)
	ctx.Push("row", newBasket(1), "")

	for i := 0; i < 3; i++ {
		if _, ok := r.Read(p, ctx, nil); ok {
			t.Fatalf("Read() call %d found a value", i)
		}
		if s, ok := r.Display(p, ctx, nil); ok || s != "" {
			t.Fatalf("Display() call %d = %q, %v", i, s, ok)
		}
	}
	if got := ctx.Names(); !cmp.Equal(got, []string{"row"}) {
		t.Errorf("context bindings changed: %v", got)
	}
}

func TestDisplay(t *testing.T) {
	msgs := stubMessages{
		"none":  "(none)",
		"range": "{0} to {1}",
	}
	r := NewResolver(WithMessages(msgs))
	focus := map[string]any{"from": 3, "to": 7, "flag": true, "at": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	tests := []struct {
		name  string
		path  *Path
		want  string
		shown bool
	}{
		{name: "natural int", path: MustParse("from"), want: "3", shown: true},
		{name: "natural bool", path: MustParse("flag"), want: "true", shown: true},
		{name: "natural time", path: MustParse("at"), want: "2024-01-02T03:04:05Z", shown: true},
		{name: "missing without fallback", path: MustParse("gone"), shown: false},
		{name: "fallback message", path: MustParse("gone", WithFallback("none")), want: "(none)", shown: true},
		{name: "fallback without message", path: MustParse("gone", WithFallback("label.none")), want: "label.none", shown: true},
		{name: "combine", path: MustParse("from", WithCombine("range", MustParse("to"))), want: "3 to 7", shown: true},
		{name: "combine missing aux", path: MustParse("from", WithCombine("range", MustParse("gone"))), want: "3 to ", shown: true},
		{name: "combine without message", path: MustParse("from", WithCombine("nope")), want: "3", shown: true},
		{name: "formatter", path: MustParse("from", WithFormat(func(v Value) string { return "#" + v.String() })), want: "#3", shown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Display(tt.path, nil, focus)
			if ok != tt.shown || got != tt.want {
				t.Errorf("Display() = %q, %v, want %q, %v", got, ok, tt.want, tt.shown)
			}
		})
	}
}

func TestWrite_TextListTrimsAndNulls(t *testing.T) {
	r := NewResolver()
	it := &item{}

	err := r.Write(MustParse("notes"), nil, it, Values("  a ", "", "b"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := make([]any, len(it.Notes))
	for i, n := range it.Notes {
		if n != nil {
			got[i] = *n
		}
	}
	want := []any{"a", nil, "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Write() stored mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_TypeDispatch(t *testing.T) {
	r := NewResolver(WithTimeLayout("2006-01-02"))

	tests := []struct {
		name  string
		path  string
		in    Input
		check func(*item) bool
	}{
		{name: "text trimmed", path: "label", in: Values("  hi  "), check: func(i *item) bool { return i.Label == "hi" }},
		{name: "text blank is absent", path: "label", in: Values("   "), check: func(i *item) bool { return i.Label == "" }},
		{name: "int", path: "count", in: Values("42"), check: func(i *item) bool { return i.Count == 42 }},
		{name: "int overflow is absent", path: "count", in: Values("99999999999"), check: func(i *item) bool { return i.Count == 7 }},
		{name: "long", path: "total", in: Values("99999999999"), check: func(i *item) bool { return i.Total == 99999999999 }},
		{name: "bool literal", path: "ready", in: Values("True"), check: func(i *item) bool { return i.Ready }},
		{name: "bool list keeps siblings", path: "flags", in: Values("true", "bogus", "false"), check: func(i *item) bool {
			return cmp.Equal(i.Flags, []bool{true, false, false})
		}},
		{name: "time", path: "due", in: Values("2024-03-01"), check: func(i *item) bool {
			return i.Due.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		}},
		{name: "upload", path: "doc", in: Input{File: fakeUpload("a.pdf")}, check: func(i *item) bool {
			return i.Doc != nil && i.Doc.Name() == "a.pdf"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &item{Count: 7}
			if err := r.Write(MustParse(tt.path), nil, it, tt.in); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !tt.check(it) {
				t.Errorf("Write() stored unexpected state: %+v", it)
			}
		})
	}
}

func TestWrite_Refused(t *testing.T) {
	r := NewResolver()
	ctx := binding.New(nil)
	ctx.Push("row", newBasket(2), "items")

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "read-only property", path: "${row}.items.[0].tags", wantErr: types.ErrWriteRefused},
		{name: "object property", path: "${row}.items.[0].self", wantErr: types.ErrWriteRefused},
		{name: "unknown property", path: "${row}.items.[0].nope", wantErr: types.ErrWriteRefused},
		{name: "non-writable owner", path: "${row}.meta", wantErr: types.ErrWriteRefused},
		{name: "index as last segment", path: "${row}.items.[0]", wantErr: types.ErrWriteRefused},
		{name: "binding only", path: "${row}", wantErr: types.ErrWriteRefused},
		{name: "owner out of range", path: "${row}.items.[5].label", wantErr: types.ErrTargetNotFound},
		{name: "unbound root", path: "${other}.label", wantErr: types.ErrTargetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Write(MustParse(tt.path), ctx, nil, Values("x"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Write() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFullPath_RoundTrip(t *testing.T) {
	r := NewResolver()
	b := newBasket(3)
	ctx := binding.New(nil)
	ctx.Push("row", b.Items[1], "items.[1]")

	p := MustParse("${row}.label")
	full := r.FullPath(p, ctx)
	if full != "items.[1].label" {
		t.Fatalf("FullPath() = %q", full)
	}

	reparsed := MustParse(full)
	if err := r.Write(reparsed, nil, b, Values("renamed")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if b.Items[1].Label != "renamed" {
		t.Errorf("Write() through full path updated the wrong element: %+v", b.Items)
	}

	if got := FullPath(MustParse("${unencoded}.x"), ctx); got != "${unencoded}.x" {
		t.Errorf("FullPath() without encoding = %q", got)
	}
	if got := FullPath(MustParse("${row}"), ctx); got != "items.[1]" {
		t.Errorf("FullPath() of binding = %q", got)
	}
}

type panicky struct{}

func (panicky) Property(string) (any, bool) { panic("boom") }

func TestRead_PanicIsMissing(t *testing.T) {
	r := NewResolver()
	if _, ok := r.Read(MustParse("x"), nil, panicky{}); ok {
		t.Error("Read() through a panicking accessor should be MISSING")
	}
}

type fakeUpload string

func (f fakeUpload) Name() string { return string(f) }
func (f fakeUpload) Size() int64  { return int64(len(f)) }
func (f fakeUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(f))), nil
}
