// Package logger records routing session events for offline replay.
package logger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pcb-router/internal/item"
	"pcb-router/internal/metrics"
	"pcb-router/pkg/geometry"
)

// EventType identifies a routing action. The numeric values are part of the
// saved trace format.
type EventType int

const (
	EventStartRoute EventType = iota
	EventStartDrag
	EventFix
	EventMove
	EventAbort
	EventCollision
	EventShove
)

func (e EventType) String() string {
	switch e {
	case EventStartRoute:
		return "StartRoute"
	case EventStartDrag:
		return "StartDrag"
	case EventFix:
		return "Fix"
	case EventMove:
		return "Move"
	case EventAbort:
		return "Abort"
	case EventCollision:
		return "Collision"
	case EventShove:
		return "Shove"
	default:
		return "Unknown"
	}
}

// Entry is an immutable snapshot of one logged event.
type Entry struct {
	Type    EventType
	Pos     geometry.Point
	HasItem bool
	Kind    item.Kind
	Net     int
	Parent  uuid.UUID
}

// HasProvenance reports whether the entry references a board-level object.
func (e Entry) HasProvenance() bool {
	return e.HasItem && e.Parent != uuid.Nil
}

// Logger is an append-only event trace.
type Logger struct {
	mu     sync.Mutex
	events []Entry
}

// New creates an empty logger.
func New() *Logger {
	return &Logger{}
}

// Log appends one event. it may be nil.
func (l *Logger) Log(evt EventType, pos geometry.Point, it item.Item) {
	e := Entry{Type: evt, Pos: pos}
	if it != nil {
		e.HasItem = true
		e.Kind = it.Kind()
		e.Net = it.Net()
		e.Parent = it.Parent()
	}
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
	metrics.LoggedEvents.WithLabelValues(evt.String()).Inc()
}

// Clear drops the whole trace.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// Len returns the number of logged events.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Events returns a copy of the trace.
func (l *Logger) Events() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.events))
	copy(out, l.events)
	return out
}

// WriteTo writes the trace, one line per event with provenance, in insertion order.
func (l *Logger) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, e := range l.Events() {
		if !e.HasProvenance() {
			continue
		}
		n, err := fmt.Fprintf(bw, "event %d %d %d %s\n", int(e.Type), e.Pos.X, e.Pos.Y, e.Parent)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write event: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return total, fmt.Errorf("flush events: %w", err)
	}
	return total, nil
}

// Save writes the trace to path. A failure is logged and returned; the trace
// is kept so the caller may retry.
func (l *Logger) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("logger: skipping save: %v", err)
		return fmt.Errorf("create trace file: %w", err)
	}
	if _, err := l.WriteTo(f); err != nil {
		f.Close()
		log.Printf("logger: save to %s failed: %v", path, err)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close trace file: %w", err)
	}
	return nil
}

// ErrMalformedLine is wrapped by ReadEvents for lines that do not parse.
var ErrMalformedLine = errors.New("malformed event line")

// Record is one event read back from a saved trace.
type Record struct {
	Type   EventType
	Pos    geometry.Point
	Parent uuid.UUID
}

// ReadEvents parses a saved trace. Blank lines are skipped.
func ReadEvents(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return records, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("read trace: %w", err)
	}
	return records, nil
}

func parseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 || fields[0] != "event" {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	var nums [3]int
	for i := range nums {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return Record{}, fmt.Errorf("%w: field %d: %v", ErrMalformedLine, i+1, err)
		}
		nums[i] = v
	}
	id, err := uuid.Parse(fields[4])
	if err != nil {
		return Record{}, fmt.Errorf("%w: provenance: %v", ErrMalformedLine, err)
	}
	return Record{
		Type:   EventType(nums[0]),
		Pos:    geometry.Point{X: nums[1], Y: nums[2]},
		Parent: id,
	}, nil
}

// Summary counts records by event type.
func Summary(records []Record) map[EventType]int {
	counts := make(map[EventType]int)
	for _, r := range records {
		counts[r.Type]++
	}
	return counts
}
