package json_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	strev "github.com/okanoue/strev"
	fjson "github.com/okanoue/strev/format/json"
)

type person struct {
	Name string
	Age  int
	Tags []string
}

func TestReaderBuild(t *testing.T) {
	in := []byte(`{"Name":"Ann","Age":30,"Tags":["a","b"]}`)
	p, err := strev.Build[person](fjson.NewBytes(in))
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Ann", Age: 30, Tags: []string{"a", "b"}}, p)
}

func TestWriterWalk(t *testing.T) {
	w := fjson.NewWriter()
	p := person{Name: "Ann", Age: 30, Tags: []string{"a", "b"}}
	require.NoError(t, strev.Walk(p, w))
	assert.Equal(t, `{"Name":"Ann","Age":30,"Tags":["a","b"]}`, string(w.Bytes()))
}

func TestWriterScalarsAndReset(t *testing.T) {
	w := fjson.NewWriter()
	require.NoError(t, w.Null())
	assert.Equal(t, "null", string(w.Bytes()))

	w.Reset()
	require.NoError(t, strev.Walk(7, w))
	assert.Equal(t, "7", string(w.Bytes()))
}

func TestTranscodeIdempotence(t *testing.T) {
	in := `{"a":[1,2.5,null],"b":"x","c":{"d":true},"e":[]}`
	w := fjson.NewWriter()
	require.NoError(t, strev.Pipe(fjson.NewBytes([]byte(in)), w))
	assert.Equal(t, in, string(w.Bytes()))

	// a second pass over the writer's own output is a fixed point
	w2 := fjson.NewWriter()
	require.NoError(t, strev.Pipe(fjson.NewBytes(w.Bytes()), w2))
	assert.Equal(t, string(w.Bytes()), string(w2.Bytes()))
}

func TestNumericKeysQuotedOnTheWire(t *testing.T) {
	w := fjson.NewWriter()
	require.NoError(t, strev.Walk(map[int]string{7: "x"}, w))
	assert.Equal(t, `{"7":"x"}`, string(w.Bytes()))

	m, err := strev.Build[map[int]string](fjson.NewBytes(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{7: "x"}, m)
}

func TestEmptyStringKey(t *testing.T) {
	m, err := strev.Build[map[string]string](fjson.NewBytes([]byte(`{"":"v","a":"b"}`)))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"": "v", "a": "b"}, m)
}

func TestWriterRejectsNullKey(t *testing.T) {
	w := fjson.NewWriter()
	err := w.Object(func(name, value strev.Sink) (bool, error) {
		if err := name.Null(); err != nil {
			return false, err
		}
		return true, value.String("v")
	})
	require.Error(t, err)
}

func TestWriterRejectsInvalidNumberText(t *testing.T) {
	w := fjson.NewWriter()
	require.Error(t, w.Number("NaN"))

	require.Error(t, strev.Walk(math.NaN(), fjson.NewWriter()))
	require.Error(t, strev.Walk(math.Inf(1), fjson.NewWriter()))
}

func TestBuildSurfacesIssues(t *testing.T) {
	_, err := strev.Build[person](fjson.NewBytes([]byte(`{"bogus":1}`)))
	require.Error(t, err)
	iss, ok := strev.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, strev.CodeUnknownField, iss[0].Code)
}

func TestBuildMalformedInput(t *testing.T) {
	_, err := strev.Build[person](fjson.NewBytes([]byte(`{"Name":`)))
	require.Error(t, err)
}

func TestStringEscaping(t *testing.T) {
	w := fjson.NewWriter()
	require.NoError(t, strev.Walk(`he said "hi"`, w))
	assert.Equal(t, `"he said \"hi\""`, string(w.Bytes()))

	s, err := strev.Build[string](fjson.NewBytes(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, `he said "hi"`, s)
}
