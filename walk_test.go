package strev_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	strev "github.com/okanoue/strev"
)

type person struct {
	Name string
	Age  int
	Tags []string

	note string // unexported, never serialized
}

func TestWalkRecordDeclarationOrder(t *testing.T) {
	p := person{Name: "Ann", Age: 30, Tags: []string{"a", "b"}, note: "hidden"}
	rec := &recSink{}
	require.NoError(t, strev.Walk(p, rec))

	want := []ev{
		objBegin,
		str("Name"), str("Ann"),
		str("Age"), num("30"),
		str("Tags"), arrBegin, str("a"), str("b"), arrEnd,
		objEnd,
	}
	assert.Equal(t, want, rec.events)
}

func TestWalkNilPointer(t *testing.T) {
	rec := &recSink{}
	require.NoError(t, strev.Walk[*int](nil, rec))
	assert.Equal(t, []ev{null()}, rec.events)

	n := 7
	rec = &recSink{}
	require.NoError(t, strev.Walk(&n, rec))
	assert.Equal(t, []ev{num("7")}, rec.events)
}

func TestWalkNumericFormatting(t *testing.T) {
	rec := &recSink{}
	require.NoError(t, strev.Walk(3.14, rec))
	assert.Equal(t, []ev{num("3.14")}, rec.events)

	rec = &recSink{}
	require.NoError(t, strev.Walk(float32(1.5), rec))
	assert.Equal(t, []ev{num("1.5")}, rec.events)

	rec = &recSink{}
	require.NoError(t, strev.Walk(int8(-12), rec))
	assert.Equal(t, []ev{num("-12")}, rec.events)

	rec = &recSink{}
	require.NoError(t, strev.Walk(uint16(65535), rec))
	assert.Equal(t, []ev{num("65535")}, rec.events)
}

func TestWalkNilSliceIsEmptyArray(t *testing.T) {
	rec := &recSink{}
	require.NoError(t, strev.Walk[[]int](nil, rec))
	assert.Equal(t, []ev{arrBegin, arrEnd}, rec.events)
}

func TestWalkMapping(t *testing.T) {
	rec := &recSink{}
	require.NoError(t, strev.Walk(map[string]int{"k": 1}, rec))
	assert.Equal(t, []ev{objBegin, str("k"), num("1"), objEnd}, rec.events)

	// non-textual keys go through their own dispatch rule
	rec = &recSink{}
	require.NoError(t, strev.Walk(map[int]string{7: "x"}, rec))
	assert.Equal(t, []ev{objBegin, num("7"), str("x"), objEnd}, rec.events)
}

func TestWalkBoolean(t *testing.T) {
	rec := &recSink{}
	require.NoError(t, strev.Walk(true, rec))
	assert.Equal(t, []ev{boolean(true)}, rec.events)
}

// coord round-trips through text, so it must cross the protocol as a string
// even though it is a struct.
type coord struct {
	x, y string
}

func (c coord) MarshalText() ([]byte, error) { return []byte(c.x + ":" + c.y), nil }

func (c *coord) UnmarshalText(b []byte) error {
	parts := strings.SplitN(string(b), ":", 2)
	c.x, c.y = parts[0], parts[1]
	return nil
}

func TestWalkTextMarshaler(t *testing.T) {
	rec := &recSink{}
	require.NoError(t, strev.Walk(coord{x: "3", y: "4"}, rec))
	assert.Equal(t, []ev{str("3:4")}, rec.events)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec = &recSink{}
	require.NoError(t, strev.Walk(ts, rec))
	require.Len(t, rec.events, 1)
	assert.Equal(t, "str", rec.events[0].kind)
	assert.Equal(t, "2024-05-01T12:00:00Z", rec.events[0].text)
}

func TestWalkUnsupportedTypeFailsBeforeEvents(t *testing.T) {
	rec := &recSink{}
	err := strev.Walk(make(chan int), rec)
	require.Error(t, err)
	iss, ok := strev.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, strev.CodeUnsupportedType, iss[0].Code)
	assert.Contains(t, iss[0].Message, "no serialization strategy for type")
	assert.Empty(t, rec.events)
}
