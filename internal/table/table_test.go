package table

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tb := New(3)
	require.NoError(t, tb.Add("xcenter", []float64{1.5, -2, 0.1}))
	require.NoError(t, tb.Add("identifier", []float64{1, 2, 3}))
	require.NoError(t, tb.Add("dsbPresent", []float64{1, math.NaN(), 0}))
	return tb
}

func TestAddRejectsBadColumns(t *testing.T) {
	tb := New(2)
	require.NoError(t, tb.Add("a", []float64{1, 2}))
	assert.Error(t, tb.Add("a", []float64{3, 4}), "duplicate")
	assert.Error(t, tb.Add("b", []float64{1}), "short")
	assert.Error(t, tb.Add("", []float64{1, 2}), "unnamed")
}

func TestTransformsLeaveReceiverUntouched(t *testing.T) {
	tb := sample(t)

	dropped := tb.Drop("identifier", "nope")
	assert.Equal(t, []string{"xcenter", "dsbPresent"}, dropped.Names())
	assert.Equal(t, 3, tb.Width())

	sel := tb.Select([]int{2, 0})
	assert.Equal(t, []float64{0.1, 1.5}, sel.MustColumn("xcenter"))
	assert.Equal(t, 3, tb.Len())

	replaced, err := tb.WithColumn("xcenter", []float64{9, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 9, 9}, replaced.MustColumn("xcenter"))
	assert.Equal(t, 1.5, tb.MustColumn("xcenter")[0])
	assert.Equal(t, tb.Names(), replaced.Names())

	where := tb.Where(func(i int) bool { return tb.MustColumn("identifier")[i] != 2 })
	assert.Equal(t, []float64{1, 3}, where.MustColumn("identifier"))
}

func TestJoin(t *testing.T) {
	a := New(2)
	require.NoError(t, a.Add("x", []float64{1, 2}))
	b := New(2)
	require.NoError(t, b.Add("y", []float64{3, 4}))

	j, err := a.Join(New(0), b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, j.Names())
	assert.Equal(t, []float64{1, 3}, j.Row(0))

	c := New(2)
	require.NoError(t, c.Add("x", []float64{5, 6}))
	_, err = a.Join(c)
	assert.ErrorContains(t, err, "appears twice")

	d := New(3)
	require.NoError(t, d.Add("z", []float64{1, 2, 3}))
	_, err = a.Join(d)
	assert.ErrorContains(t, err, "row count")
}

func TestUnique(t *testing.T) {
	tb := New(5)
	require.NoError(t, tb.Add("k", []float64{2, 1, 2, math.NaN(), 3}))
	assert.Equal(t, []float64{2, 1, 3}, tb.Unique("k"))
	assert.Nil(t, tb.Unique("missing"))
}

func TestDelimitedRoundTrip(t *testing.T) {
	tb := sample(t)
	var buf bytes.Buffer
	require.NoError(t, tb.WriteDelimited(&buf, ','))
	assert.True(t, strings.HasPrefix(buf.String(), "xcenter,identifier,dsbPresent\n1.5,1,1\n"))

	back, err := ReadDelimited(bytes.NewReader(buf.Bytes()), ',')
	require.NoError(t, err)
	assertSameTable(t, tb, back)
}

func TestFileRoundTripAllFormats(t *testing.T) {
	tb := sample(t)
	dir := t.TempDir()
	for _, f := range []Format{FormatCSV, FormatTSV, FormatArrow} {
		path := filepath.Join(dir, "parsed"+f.Ext())
		require.NoError(t, tb.WriteFile(path, f), string(f))
		back, err := ReadFile(path)
		require.NoError(t, err, string(f))
		assertSameTable(t, tb, back)
	}
}

func TestDetectDelimiter(t *testing.T) {
	semi := "a;b;c\n1;-2;3\n4;5;-6\n"
	assert.Equal(t, ';', DetectDelimiter(strings.NewReader(semi)))
	assert.Equal(t, ',', DetectDelimiter(strings.NewReader("only\n1\n2\n")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TSV")
	require.NoError(t, err)
	assert.Equal(t, FormatTSV, f)
	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
	assert.Equal(t, FormatArrow, FormatFromPath("/tmp/x.arrow"))
}

func assertSameTable(t *testing.T, want, got *Table) {
	t.Helper()
	require.Equal(t, want.Names(), got.Names())
	require.Equal(t, want.Len(), got.Len())
	for _, name := range want.Names() {
		w, g := want.MustColumn(name), got.MustColumn(name)
		for i := range w {
			if math.IsNaN(w[i]) {
				assert.True(t, math.IsNaN(g[i]), "%s[%d]", name, i)
				continue
			}
			assert.Equal(t, w[i], g[i], "%s[%d]", name, i)
		}
	}
}
