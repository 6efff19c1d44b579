package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string) []*Section {
	t.Helper()
	r := NewReader()
	require.NoError(t, r.Add(strings.NewReader(text), "/cfg/run.conf"))
	return r.Sections()
}

func TestReader_CommentsAndBlankLines(t *testing.T) {
	sections := parse(t, `
# a leading comment
   # indented comment

[Allpix]
number_of_events = 3
`)
	require.Len(t, sections, 1)
	assert.Equal(t, "Allpix", sections[0].Name())
	v, err := sections[0].GetInt("number_of_events")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestReader_InlineCommentOutsideQuotes(t *testing.T) {
	sections := parse(t, "[M]\nmessage = hello # trailing comment\n")
	v, err := sections[0].GetString("message")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestReader_HashInsideQuotesPreserved(t *testing.T) {
	sections := parse(t, `[M]
message = "hello # not a comment"
`)
	v, err := sections[0].GetString("message")
	require.NoError(t, err)
	assert.Equal(t, "hello # not a comment", v)
}

func TestSerialize_RoundTrip(t *testing.T) {
	text := `[Allpix]
number_of_events = 3
random_seed = 42

[EchoModule]
message = "hello # not a comment"
threshold = 500e
`
	first := parse(t, text)
	second := parse(t, Serialize(first))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name(), second[i].Name())
		assert.Equal(t, first[i].Keys(), second[i].Keys())
		for _, key := range first[i].Keys() {
			a, err := first[i].GetString(key)
			require.NoError(t, err)
			b, err := second[i].GetString(key)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	}
}

func TestReader_DuplicateKeyIsParseError(t *testing.T) {
	r := NewReader()
	err := r.Add(strings.NewReader("[M]\nkey = a\nkey = b\n"), "f.conf")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestReader_MalformedLineReportsLineNumber(t *testing.T) {
	r := NewReader()
	err := r.Add(strings.NewReader("[M]\nkey = 1\nnot a valid line\n"), "f.conf")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "f.conf", perr.File)
}

func TestSection_MergeKeepsExistingKeys(t *testing.T) {
	a := NewSection("Allpix", "/a")
	require.NoError(t, a.Define("x", "1"))
	b := NewSection("Allpix", "/b")
	require.NoError(t, b.Define("x", "2"))
	require.NoError(t, b.Define("y", "3"))

	a.Merge(b)
	x, _ := a.GetInt("x")
	y, _ := a.GetInt("y")
	assert.Equal(t, int64(1), x)
	assert.Equal(t, int64(3), y)
}

func TestDocument_Categorization(t *testing.T) {
	sections := parse(t, `
[Allpix]
number_of_events = 3

[Ignored]
foo = bar

[EchoModule]
message = "hello"
`)
	doc := NewDocument(sections, []string{"Allpix"}, []string{"Ignored"})
	n, err := doc.Global().GetInt("number_of_events")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mods := doc.ModuleSections()
	require.Len(t, mods, 1)
	assert.Equal(t, "EchoModule", mods[0].Name())
}

func TestSection_TypedRetrieval(t *testing.T) {
	units := NewDefaultUnits()
	sections := parse(t, `[Digitizer]
threshold = 500e
position = 1.0mm, 2.0mm, 3.0mm
name = "A", "B"
enabled = true
`)
	s := sections[0]

	threshold, err := s.GetFloat("threshold", units)
	require.NoError(t, err)
	assert.InDelta(t, 500, threshold, 1e-9)

	pos, err := s.Get3Vector("position", units)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 2, 3}, pos)

	names, err := s.GetStringArray("name")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	enabled, err := s.GetBool("enabled")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSection_MissingAndInvalidKey(t *testing.T) {
	s := NewSection("M", "/cfg/run.conf")
	require.NoError(t, s.Define("foo", "not-a-number"))

	_, err := s.GetInt("missing")
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)

	_, err = s.GetInt("foo")
	var invalid *InvalidKeyError
	require.ErrorAs(t, err, &invalid)
}

func TestSection_GetPath(t *testing.T) {
	s := NewSection("M", "/cfg/run.conf")
	require.NoError(t, s.Define("file", "data/model.conf"))
	p, err := s.GetPath("file", false)
	require.NoError(t, err)
	assert.Equal(t, "/cfg/data/model.conf", p)
}
