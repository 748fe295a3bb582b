package eventlog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cartflow/internal/eventlog"
)

func newLog(t *testing.T) (*eventlog.Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.ndjson")
	l, err := eventlog.New(path)
	require.NoError(t, err)
	return l, path
}

func TestAppendAndTail(t *testing.T) {
	l, _ := newLog(t)

	for i := 0; i < 10; i++ {
		err := l.Append(eventlog.Event{TS: int64(i + 1), Type: fmt.Sprintf("event_%d", i)})
		require.NoError(t, err)
	}

	events, err := l.Tail(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	// newest-last, chronological
	require.Equal(t, "event_7", events[0].Type)
	require.Equal(t, "event_8", events[1].Type)
	require.Equal(t, "event_9", events[2].Type)
}

func TestTail_LimitLargerThanLog(t *testing.T) {
	l, _ := newLog(t)
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Append(eventlog.Event{TS: int64(i + 1), Type: "ev"}))
	}

	events, err := l.Tail(100)
	require.NoError(t, err)
	require.Len(t, events, 4)
	require.Equal(t, int64(1), events[0].TS)
	require.Equal(t, int64(4), events[3].TS)
}

func TestTail_ClampsLimit(t *testing.T) {
	l, _ := newLog(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Append(eventlog.Event{TS: int64(i + 1), Type: "ev"}))
	}

	events, err := l.Tail(0)
	require.NoError(t, err)
	require.Len(t, events, 1, "limit below 1 clamps to 1")
	require.Equal(t, int64(5), events[0].TS)

	events, err = l.Tail(-7)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestTail_MissingFile(t *testing.T) {
	l, err := eventlog.New(filepath.Join(t.TempDir(), "never-written.ndjson"))
	require.NoError(t, err)

	events, err := l.Tail(10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestTail_SkipsMalformedLines(t *testing.T) {
	l, path := newLog(t)
	require.NoError(t, l.Append(eventlog.Event{TS: 1, Type: "good_1"}))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json at all\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, l.Append(eventlog.Event{TS: 2, Type: "good_2"}))

	events, err := l.Tail(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "good_1", events[0].Type)
	require.Equal(t, "good_2", events[1].Type)
}

func TestTail_LineLongerThanChunk(t *testing.T) {
	l, _ := newLog(t)
	big := strings.Repeat("x", 20*1024)
	require.NoError(t, l.Append(eventlog.Event{TS: 1, Type: "small"}))
	require.NoError(t, l.Append(eventlog.Event{TS: 2, Type: "big", Data: map[string]any{"blob": big}}))
	require.NoError(t, l.Append(eventlog.Event{TS: 3, Type: "after"}))

	events, err := l.Tail(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "small", events[0].Type)
	require.Equal(t, "big", events[1].Type)
	require.Equal(t, big, events[1].Data["blob"])
	require.Equal(t, "after", events[2].Type)
}

func TestAppend_ConcurrentWritersKeepLinesIntact(t *testing.T) {
	l, path := newLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = l.Append(eventlog.Event{TS: int64(n), Type: "concurrent"})
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 20)

	events, err := l.Tail(20)
	require.NoError(t, err)
	require.Len(t, events, 20, "every concurrent append must decode")
}

func TestEvent_SnapshotsSurviveRoundTrip(t *testing.T) {
	l, _ := newLog(t)
	require.NoError(t, l.Append(eventlog.Event{
		TS:    42,
		Type:  "cart_add",
		Path:  "/api/cart/add",
		IP:    "192.0.2.7",
		Order: map[string]any{"id": "PO-20250314-090000"},
		Data:  map[string]any{"sku": "SKU-001"},
		User:  map[string]any{"id": "U-00ff", "email": "a@b.com"},
	}))

	events, err := l.Tail(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, int64(42), ev.TS)
	require.Equal(t, "/api/cart/add", ev.Path)
	require.Equal(t, "192.0.2.7", ev.IP)
	require.Equal(t, map[string]any{"id": "PO-20250314-090000"}, ev.Order)
	require.Equal(t, "SKU-001", ev.Data["sku"])
}
