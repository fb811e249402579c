package memory

import (
	"fmt"
	"testing"

	"helpdesk/app/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *config.Config) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Data.Dir = t.TempDir()

	di := do.New()
	do.ProvideValue(di, cfg)

	svc, err := New(di)
	require.NoError(t, err)

	return svc, cfg
}

func TestRecordProductDeduplicates(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.RecordProduct("c1", "Aurora Headphones"))
	require.NoError(t, svc.RecordProduct("c1", "Breeze Smartwatch"))
	require.NoError(t, svc.RecordProduct("c1", "Aurora Headphones"))

	products, err := svc.ProductsDiscussed("c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aurora Headphones", "Breeze Smartwatch"}, products)
}

func TestRecordOrderAndIntent(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.RecordOrder("c1", "12345"))
	require.NoError(t, svc.RecordIntent("c1", "order"))

	snapshot, err := svc.Snapshot("c1")
	require.NoError(t, err)
	assert.Equal(t, "12345", snapshot.LastOrderID)
	assert.Equal(t, "order", snapshot.LastIntent)
}

func TestConversationsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.RecordOrder("c1", "12345"))
	require.NoError(t, svc.RecordOrder("c2", "54321"))

	snapshot, err := svc.Snapshot("c1")
	require.NoError(t, err)
	assert.Equal(t, "12345", snapshot.LastOrderID)

	snapshot, err = svc.Snapshot("c2")
	require.NoError(t, err)
	assert.Equal(t, "54321", snapshot.LastOrderID)
}

func TestSnapshotUnknownConversation(t *testing.T) {
	svc, _ := newTestService(t)

	snapshot, err := svc.Snapshot("nope")
	require.NoError(t, err)
	assert.Equal(t, "nope", snapshot.ID)
	assert.Empty(t, snapshot.Products)
	assert.Empty(t, snapshot.LastOrderID)
}

func TestTurnHistoryIsBounded(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < turnHistorySize+5; i++ {
		require.NoError(t, svc.RecordTurn("c1", "user", fmt.Sprintf("message %d", i)))
	}

	snapshot, err := svc.Snapshot("c1")
	require.NoError(t, err)
	require.Len(t, snapshot.Turns, turnHistorySize)
	assert.Equal(t, "message 5", snapshot.Turns[0].Text)
	assert.Equal(t, fmt.Sprintf("message %d", turnHistorySize+4), snapshot.Turns[turnHistorySize-1].Text)
}

func TestMemorySurvivesRestart(t *testing.T) {
	svc, cfg := newTestService(t)

	require.NoError(t, svc.RecordProduct("c1", "Aurora Headphones"))

	di := do.New()
	do.ProvideValue(di, cfg)

	reopened, err := New(di)
	require.NoError(t, err)

	products, err := reopened.ProductsDiscussed("c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aurora Headphones"}, products)
}

func TestSnapshotIsACopy(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.RecordProduct("c1", "Aurora Headphones"))

	snapshot, err := svc.Snapshot("c1")
	require.NoError(t, err)
	snapshot.Products[0] = "mutated"

	products, err := svc.ProductsDiscussed("c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aurora Headphones"}, products)
}
