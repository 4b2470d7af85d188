package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/store"
)

func TestNewScheduler_RegistersAllCycles(t *testing.T) {
	t.Parallel()

	eng := NewEngine(store.NewMemoryStore(), &stubZakeke{}, &stubResolver{}, &stubFetcher{}, &stubNotifier{},
		WithLogger(quietLogger()),
	)

	s, err := NewScheduler(eng, time.Minute, 2*time.Minute, 30*time.Second, quietLogger())
	require.NoError(t, err)

	assert.Len(t, s.Entries(), 3)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	eng := NewEngine(store.NewMemoryStore(), &stubZakeke{}, &stubResolver{}, &stubFetcher{}, &stubNotifier{},
		WithLogger(quietLogger()),
	)

	s, err := NewScheduler(eng, time.Hour, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	s.Start()
	stopCtx := s.Stop()

	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
