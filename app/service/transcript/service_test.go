package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"testing"

	"helpdesk/app/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Data.Dir = t.TempDir()

	di := do.New()
	do.ProvideValue(di, cfg)

	svc, err := New(di)
	require.NoError(t, err)

	return svc
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var entries []Entry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	return entries
}

func TestRunDrainsQueueOnShutdown(t *testing.T) {
	svc := newTestService(t)

	svc.Add("c1", "user", "where is my order?")
	svc.Add("c1", "assistant", "Please provide your order ID.")
	require.NoError(t, svc.Shutdown())

	// The closed queue still delivers buffered entries before Run returns.
	svc.Run(context.Background())

	entries := readEntries(t, svc.filePath)
	require.Len(t, entries, 2)
	assert.Equal(t, "user", entries[0].Role)
	assert.Equal(t, "where is my order?", entries[0].Text)
	assert.Equal(t, "c1", entries[1].ConversationID)
	assert.Equal(t, "assistant", entries[1].Role)
}

func TestAddAfterShutdownDoesNotPanic(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Shutdown())

	assert.NotPanics(t, func() {
		svc.Add("c1", "user", "late message")
	})
}

func TestAddDropsWhenFull(t *testing.T) {
	svc := newTestService(t)

	// No consumer running: the buffer fills and extra entries are dropped
	// without blocking.
	for i := 0; i < bufferSize+10; i++ {
		svc.Add("c1", "user", "spam")
	}

	assert.Len(t, svc.queue, bufferSize)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	<-done
}
