package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-router/internal/item"
	"pcb-router/pkg/geometry"
)

func viaWithParent(id uuid.UUID) *item.Via {
	v := item.NewVia(geometry.Point{}, 600, 250, 1)
	v.SetParent(id)
	return v
}

// TestSaveThreeEvents checks line count, order and field layout.
func TestSaveThreeEvents(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	l := New()
	l.Log(EventStartRoute, geometry.Point{X: 1, Y: 2}, viaWithParent(ids[0]))
	l.Log(EventMove, geometry.Point{X: -30, Y: 40}, viaWithParent(ids[1]))
	l.Log(EventFix, geometry.Point{X: 500, Y: 600}, viaWithParent(ids[2]))

	path := filepath.Join(t.TempDir(), "trace.log")
	require.NoError(t, l.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "event 0 1 2 "+ids[0].String(), lines[0])
	assert.Equal(t, "event 3 -30 40 "+ids[1].String(), lines[1])
	assert.Equal(t, "event 2 500 600 "+ids[2].String(), lines[2])
	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 5)
		assert.Equal(t, "event", fields[0])
		assert.Len(t, fields[1:], 4)
	}
}

func TestEntriesWithoutProvenanceSkipped(t *testing.T) {
	id := uuid.New()
	l := New()
	l.Log(EventStartDrag, geometry.Point{X: 1, Y: 1}, item.NewVia(geometry.Point{}, 600, 250, 1))
	l.Log(EventAbort, geometry.Point{X: 2, Y: 2}, nil)
	l.Log(EventShove, geometry.Point{X: 3, Y: 3}, viaWithParent(id))
	assert.Equal(t, 3, l.Len())

	var buf bytes.Buffer
	n, err := l.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "event 6 3 3 "+id.String()+"\n", buf.String())
}

func TestEntriesAreSnapshots(t *testing.T) {
	id := uuid.New()
	v := viaWithParent(id)
	l := New()
	l.Log(EventMove, geometry.Point{X: 10, Y: 20}, v)

	v.SetParent(uuid.Nil)
	v.SetNet(9)

	events := l.Events()
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].Parent)
	assert.Equal(t, 1, events[0].Net)
	assert.Equal(t, item.KindVia, events[0].Kind)

	events[0].Pos = geometry.Point{}
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, l.Events()[0].Pos, "Events returns a copy")
}

func TestClear(t *testing.T) {
	l := New()
	l.Log(EventMove, geometry.Point{}, nil)
	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Events())
}

func TestSaveFailureKeepsTrace(t *testing.T) {
	l := New()
	l.Log(EventMove, geometry.Point{}, viaWithParent(uuid.New()))

	err := l.Save(filepath.Join(t.TempDir(), "missing", "dir", "trace.log"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, l.Len())
}

func TestReadEventsRoundTrip(t *testing.T) {
	id := uuid.New()
	l := New()
	l.Log(EventStartDrag, geometry.Point{X: 7, Y: -8}, viaWithParent(id))
	l.Log(EventCollision, geometry.Point{X: 9, Y: 10}, viaWithParent(id))

	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)

	records, err := ReadEvents(&buf)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Type: EventStartDrag, Pos: geometry.Point{X: 7, Y: -8}, Parent: id},
		{Type: EventCollision, Pos: geometry.Point{X: 9, Y: 10}, Parent: id},
	}, records)
	assert.Equal(t, map[EventType]int{EventStartDrag: 1, EventCollision: 1}, Summary(records))
}

func TestReadEventsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing provenance", "event 1 2 3"},
		{"wrong keyword", "evt 1 2 3 " + uuid.NewString()},
		{"bad number", "event 1 x 3 " + uuid.NewString()},
		{"bad uuid", "event 1 2 3 not-a-uuid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "\nevent 0 0 0 " + uuid.NewString() + "\n" + tt.line + "\n"
			records, err := ReadEvents(strings.NewReader(input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedLine)
			assert.Contains(t, err.Error(), "line 3")
			assert.Len(t, records, 1)
		})
	}
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "StartRoute", EventStartRoute.String())
	assert.Equal(t, "Shove", EventShove.String())
	assert.Equal(t, "Unknown", EventType(42).String())
}
