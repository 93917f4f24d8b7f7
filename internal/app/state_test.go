package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-router/internal/config"
	"pcb-router/internal/item"
	"pcb-router/internal/logger"
	"pcb-router/pkg/geometry"
)

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

// newBoard places a via at the origin and a pad to its right.
func newBoard(t *testing.T, cfg config.Config) (*Session, *item.Via) {
	t.Helper()
	s, err := NewSession(cfg)
	require.NoError(t, err)

	v := item.NewVia(pt(0, 0), 600, 250, 1)
	v.SetParent(uuid.New())
	s.AddItem(v)
	s.AddItem(item.NewSolid(geometry.NewRect(pt(1000, -500), 1000, 1000)))
	return s, v
}

func TestDragPushedAndFixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	s, v := newBoard(t, config.Default().WithLogPath(path))

	var fixed []item.ViaHandle
	s.On(EventDragFixed, func(data interface{}) { fixed = append(fixed, data.(item.ViaHandle)) })

	h, err := s.StartDrag(pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, v.MakeHandle(), h)
	assert.True(t, s.Dragging())

	res, err := s.Move(pt(600, 0))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.True(t, res.Pushed)
	assert.Equal(t, pt(-101, 0), res.Force)
	assert.Equal(t, pt(499, 0), res.Pos)
	assert.Zero(t, res.Violations)
	assert.True(t, res.ChangedArea.Contains(pt(0, 0)))
	assert.True(t, res.ChangedArea.Contains(pt(499, 0)))

	// The committed board is untouched until Fix.
	_, _, ok := s.Root().FindVia(h)
	assert.True(t, ok)
	assert.NotSame(t, s.Root(), s.Track())

	newHandle, err := s.Fix()
	require.NoError(t, err)
	assert.Equal(t, pt(499, 0), newHandle.Pos)
	assert.Equal(t, []item.ViaHandle{newHandle}, fixed)
	assert.False(t, s.Dragging())
	assert.Same(t, s.Root(), s.Track())

	_, _, ok = s.Root().FindVia(h)
	assert.False(t, ok, "old position is gone")
	got, _, ok := s.Root().FindVia(newHandle)
	require.True(t, ok)
	assert.Equal(t, v.Parent(), got.Parent())
	assert.Equal(t, 2, s.Root().Len())
	assert.True(t, s.Modified)

	require.NoError(t, s.SaveTrace())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// start-drag, shove, move and fix carry the via's provenance; the
	// collision references the pad, which has none.
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "event 1 10 10 "))
	assert.True(t, strings.HasPrefix(lines[3], "event 2 499 0 "))
	assert.Equal(t, 5, s.Trace().Len())
}

func TestDragAbortLeavesBoard(t *testing.T) {
	s, v := newBoard(t, config.Default())
	_, err := s.StartDrag(pt(0, 0))
	require.NoError(t, err)

	res, err := s.Move(pt(-2000, 0))
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.False(t, res.Pushed)
	assert.Equal(t, pt(-2000, 0), res.Pos)

	require.NoError(t, s.Abort())
	got, _, ok := s.Root().FindVia(v.MakeHandle())
	require.True(t, ok)
	assert.Same(t, v, got)
	assert.Equal(t, logger.EventAbort, s.Trace().Events()[s.Trace().Len()-1].Type)
}

func TestEachMoveReplacesTrial(t *testing.T) {
	s, _ := newBoard(t, config.Default())
	_, err := s.StartDrag(pt(0, 0))
	require.NoError(t, err)

	_, err = s.Move(pt(-100, 0))
	require.NoError(t, err)
	first := s.Track()
	_, err = s.Move(pt(-200, 0))
	require.NoError(t, err)
	assert.NotSame(t, first, s.Track())
	assert.Equal(t, 2, s.Track().Len())

	h, err := s.Fix()
	require.NoError(t, err)
	assert.Equal(t, pt(-200, 0), h.Pos)
}

func TestMoveRejectedWhenCaged(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultClass.Clearance = 0
	s, err := NewSession(cfg)
	require.NoError(t, err)

	s.AddItem(item.NewVia(pt(-20000, 0), 600, 250, 1))
	const wall = 10000
	for _, r := range []*geometry.Rect{
		geometry.NewRect(pt(4750-wall, 4750-wall), wall, 2*wall+500),
		geometry.NewRect(pt(5250, 4750-wall), wall, 2*wall+500),
		geometry.NewRect(pt(4750-wall, 5250), 2*wall+500, wall),
		geometry.NewRect(pt(4750-wall, 4750-wall), 2*wall+500, wall),
	} {
		s.AddItem(item.NewSolid(r))
	}

	var rejected int
	s.On(EventDragRejected, func(interface{}) { rejected++ })

	_, err = s.StartDrag(pt(-20000, 0))
	require.NoError(t, err)
	res, err := s.Move(pt(5000, 5000))
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, pt(-20000, 0), res.Pos)
	assert.Equal(t, 1, rejected)
	assert.Same(t, s.Root(), s.Track(), "no trial survives a rejected move")
}

func TestDragErrors(t *testing.T) {
	s, _ := newBoard(t, config.Default())

	_, err := s.Move(pt(1, 1))
	assert.ErrorIs(t, err, ErrNoDrag)
	_, err = s.Fix()
	assert.ErrorIs(t, err, ErrNoDrag)
	assert.ErrorIs(t, s.Abort(), ErrNoDrag)

	_, err = s.StartDrag(pt(1500, 0))
	assert.ErrorIs(t, err, ErrNothingToDrag, "pads are not draggable")

	_, err = s.StartDrag(pt(0, 0))
	require.NoError(t, err)
	_, err = s.StartDrag(pt(0, 0))
	assert.ErrorIs(t, err, ErrDragActive)
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	_, err := NewSession(config.Default().WithClearance(-5))
	assert.Error(t, err)

	_, err = NewSession(config.Default().WithNet(4, "Nope"))
	assert.Error(t, err)
}

func TestLoadSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "router.toml")
	require.NoError(t, config.Default().WithLogPath("trace.log").Save(path))

	s, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.ConfigPath)

	s.Trace().Log(logger.EventStartRoute, pt(0, 0), nil)
	require.NoError(t, s.SaveTrace())
	_, err = os.Stat(filepath.Join(dir, "trace.log"))
	assert.NoError(t, err, "trace path is relative to the config")

	_, err = LoadSession(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestSaveTraceFailureIsRecoverable(t *testing.T) {
	s, _ := newBoard(t, config.Default().WithLogPath(filepath.Join(t.TempDir(), "no", "such", "trace.log")))
	assert.Error(t, s.SaveTrace())

	_, err := s.StartDrag(pt(0, 0))
	assert.NoError(t, err, "session keeps running")

	off, _ := newBoard(t, config.Default().WithLogPath(""))
	assert.NoError(t, off.SaveTrace())
}
