package luatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topValue(t *testing.T, src, name string) Value {
	t.Helper()
	root := Parse(src).Table()
	require.NotNil(t, root)
	v, ok := root.Get(StringKey(name))
	require.True(t, ok, "expected top-level assignment %q", name)
	return v
}

func TestParsePositionalArray(t *testing.T) {
	v := topValue(t, "t = {1,2,3}", "t")
	require.Equal(t, KindArray, v.Kind())
	items := v.Items()
	require.Len(t, items, 3)
	for i, want := range []int64{1, 2, 3} {
		got, ok := items[i].Int64()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestParseNamedKeysMapping(t *testing.T) {
	v := topValue(t, `t = {a="x", b=5}`, "t")
	require.Equal(t, KindTable, v.Kind())
	assert.Equal(t, "x", v.Field("a").Str())
	b := v.Field("b")
	assert.Equal(t, KindInt, b.Kind())
	n, _ := b.Int64()
	assert.Equal(t, int64(5), n)
}

func TestParseBracketedIntegerKeys(t *testing.T) {
	// Non-contiguous explicit keys never form a sequence.
	v := topValue(t, `t = {[10]="x", [20]="y"}`, "t")
	require.Equal(t, KindTable, v.Kind())
	assert.Equal(t, "x", v.Index(10).Str())
	assert.Equal(t, "y", v.Index(20).Str())
	assert.Equal(t, 2, v.Table().Len())
}

func TestParseMixedEntriesForceMapping(t *testing.T) {
	v := topValue(t, "t = {1, a=2, 3}", "t")
	require.Equal(t, KindTable, v.Kind())
	one, _ := v.Index(1).Int64()
	two, _ := v.Index(2).Int64()
	a, _ := v.Field("a").Int64()
	assert.Equal(t, int64(1), one)
	assert.Equal(t, int64(3), two)
	assert.Equal(t, int64(2), a)
}

func TestParseEmptyTable(t *testing.T) {
	v := topValue(t, "-- comment\nt = {}", "t")
	require.Equal(t, KindTable, v.Kind())
	assert.Equal(t, 0, v.Table().Len())
}

func TestParseNoAssignment(t *testing.T) {
	root := Parse("garbage no assignment").Table()
	require.NotNil(t, root)
	assert.Equal(t, 0, root.Len())
}

func TestParseNestedTables(t *testing.T) {
	src := `
DataStoreDB = {
	["global"] = {
		["Characters"] = {
			["Default.Realm.Toon"] = {
				["Factions"] = {
					[2600] = { ["earned"] = 8500 },
					[2601] = { 4200, 1, 0 },
				},
				["lastUpdate"] = 1700000000,
			},
		},
	},
}
`
	v := topValue(t, src, "DataStoreDB")
	chars := v.Field("global").Field("Characters")
	require.Equal(t, KindTable, chars.Kind())
	toon, ok := chars.Table().Get(StringKey("Default.Realm.Toon"))
	require.True(t, ok)
	earned, _ := toon.Field("Factions").Index(2600).Field("earned").Int64()
	assert.Equal(t, int64(8500), earned)
	positional, _ := toon.Field("Factions").Index(2601).Index(1).Int64()
	assert.Equal(t, int64(4200), positional)
}

func TestParseBooleansAndNil(t *testing.T) {
	v := topValue(t, `t = {ok = true, bad = false, gone = nil}`, "t")
	assert.True(t, v.Field("ok").Bool())
	assert.Equal(t, KindBool, v.Field("bad").Kind())
	assert.False(t, v.Field("bad").Bool())
	assert.True(t, v.Field("gone").IsNil())
}

func TestParsePositionalBooleans(t *testing.T) {
	v := topValue(t, `t = {true, false, true}`, "t")
	require.Equal(t, KindArray, v.Kind())
	items := v.Items()
	require.Len(t, items, 3)
	assert.True(t, items[0].Bool())
	assert.False(t, items[1].Bool())
	assert.True(t, items[2].Bool())
}

func TestParseSeparators(t *testing.T) {
	// Semicolons and trailing separators are tolerated.
	v := topValue(t, "t = {1; 2, 3,}", "t")
	require.Equal(t, KindArray, v.Kind())
	assert.Len(t, v.Items(), 3)
}

func TestParseCommentInsideString(t *testing.T) {
	// A literal -- inside a string must not start a comment.
	v := topValue(t, `t = {title = "Balance -- of Power"}`, "t")
	assert.Equal(t, "Balance -- of Power", v.Field("title").Str())
}

func TestParseEscapedQuote(t *testing.T) {
	// Escape pairs pass through raw; the parser does not decode them.
	v := topValue(t, `t = {s = "say \"hi\" now"}`, "t")
	assert.Equal(t, `say \"hi\" now`, v.Field("s").Str())
}

func TestParseNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
		i    int64
		f    float64
	}{
		{"t = {n = 3.0}", KindInt, 3, 0},
		{"t = {n = 3.5}", KindFloat, 0, 3.5},
		{"t = {n = -7}", KindInt, -7, 0},
		{"t = {n = 0}", KindInt, 0, 0},
	}
	for _, tc := range cases {
		v := topValue(t, tc.src, "t").Field("n")
		require.Equal(t, tc.kind, v.Kind(), tc.src)
		if tc.kind == KindInt {
			n, _ := v.Int64()
			assert.Equal(t, tc.i, n, tc.src)
		} else {
			f, _ := v.Float64()
			assert.Equal(t, tc.f, f, tc.src)
		}
	}
}

func TestParseMalformedNumberDegradesToZero(t *testing.T) {
	v := topValue(t, "t = {n = -}", "t").Field("n")
	require.Equal(t, KindInt, v.Kind())
	n, _ := v.Int64()
	assert.Equal(t, int64(0), n)
}

func TestParseTruncatedInput(t *testing.T) {
	// File read mid-write: table never closes. Parser must terminate
	// and return the entries seen so far as a mapping.
	v := topValue(t, `t = {a = 1, b = "unfinished`, "t")
	require.Equal(t, KindTable, v.Kind())
	a, _ := v.Field("a").Int64()
	assert.Equal(t, int64(1), a)
	assert.Equal(t, "unfinished", v.Field("b").Str())
}

func TestParseGarbageByteInsideTable(t *testing.T) {
	// Unparseable bytes degrade to empty strings without hanging.
	v := topValue(t, "t = {1, @, 2}", "t")
	require.Equal(t, KindArray, v.Kind())
	assert.Len(t, v.Items(), 3)
}

func TestParseSkipsNonTableAssignments(t *testing.T) {
	v := topValue(t, "version = 5\nt = {1}", "t")
	require.Equal(t, KindArray, v.Kind())
}

func TestRoundTripPositionalSequence(t *testing.T) {
	src := "t = {1, 2, 3, {4, 5}, 6}"
	first := topValue(t, src, "t")
	require.Equal(t, KindArray, first.Kind())

	again := topValue(t, "t = "+first.Encode(), "t")
	assert.Equal(t, first.Interface(), again.Interface())
}

func TestRoundTripMapping(t *testing.T) {
	src := `t = {a = 1, [10] = "x", nested = {b = true}}`
	first := topValue(t, src, "t")
	again := topValue(t, "t = "+first.Encode(), "t")
	assert.Equal(t, first.Interface(), again.Interface())
}

func TestParseEmptySource(t *testing.T) {
	assert.Equal(t, 0, Parse("").Table().Len())
	assert.Equal(t, 0, Parse("-- only a comment").Table().Len())
}
