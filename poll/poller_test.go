package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/orderview"
)

func TestRefresh_KeepsLastGoodOnFailure(t *testing.T) {
	calls := 0
	p := New("orders", time.Second, func(ctx context.Context) ([]int, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("boom")
		}
		return []int{calls}, nil
	})

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []int{1}, p.Snapshot().Value)

	require.Error(t, p.Refresh(context.Background()))
	snap := p.Snapshot()
	assert.Equal(t, []int{1}, snap.Value, "failed fetch keeps the previous view")
	assert.True(t, snap.Stale())
	assert.Equal(t, 1, snap.Failures)

	require.NoError(t, p.Refresh(context.Background()))
	snap = p.Snapshot()
	assert.Equal(t, []int{3}, snap.Value)
	assert.NoError(t, snap.Err)
	assert.Equal(t, 3, snap.Fetches)
}

// An older request that resolves after a newer one overwrites it: the view
// shows whichever response resolved last, not whichever was issued last.
func TestOverlappingFetches_LastResolvedWins(t *testing.T) {
	releaseOld := make(chan struct{})
	var issued int32
	p := New("kitchen", time.Second, func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&issued, 1) == 1 {
			<-releaseOld
			return "old", nil
		}
		return "new", nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&issued) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, "new", p.Snapshot().Value)

	close(releaseOld)
	wg.Wait()
	assert.Equal(t, "old", p.Snapshot().Value)
}

// A listener still busy with an older result must not leave the board behind
// the snapshot once a newer result resolves.
func TestOnUpdate_BoardFollowsLatestSnapshot(t *testing.T) {
	var fetches int32
	p := New("kitchen", time.Second, func(ctx context.Context) ([]models.KitchenOrderItem, error) {
		status := models.StatusPending
		if atomic.AddInt32(&fetches, 1) > 1 {
			status = models.StatusPreparing
		}
		return []models.KitchenOrderItem{{ID: 1, OrderID: 7, TableNumber: 3, ItemName: "Paneer Tikka", Quantity: 1, Status: status}}, nil
	})

	board := orderview.NewBoard()
	entered := make(chan struct{})
	gate := make(chan struct{})
	var calls int32
	p.OnUpdate(func(s Snapshot[[]models.KitchenOrderItem]) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-gate
		}
		board.Apply(s.Value)
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = p.Refresh(context.Background())
	}()
	<-entered
	go func() {
		defer wg.Done()
		_ = p.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool {
		v := p.Snapshot().Value
		return len(v) == 1 && v[0].Status == models.StatusPreparing
	}, time.Second, time.Millisecond)

	close(gate)
	wg.Wait()

	g, ok := board.Get(7)
	require.True(t, ok)
	assert.Equal(t, models.StatusPreparing, g.Status)
	assert.Equal(t, p.Snapshot().Value[0].Status, g.Status)
}

func TestRun_TicksAndStops(t *testing.T) {
	var n int32
	p := New("tick", 5*time.Millisecond, func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&n, 1), nil
	})
	var updates int32
	p.OnUpdate(func(Snapshot[int32]) { atomic.AddInt32(&updates, 1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&updates) >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRun_ContinuesAtFixedIntervalAfterFailures(t *testing.T) {
	var n int32
	p := New("flaky", 2*time.Millisecond, func(ctx context.Context) (int, error) {
		atomic.AddInt32(&n, 1)
		return 0, errors.New("down")
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&n) >= 5 }, time.Second, time.Millisecond)
	assert.False(t, p.Snapshot().HasValue)
}

func TestPoke_TriggersFetch(t *testing.T) {
	var n int32
	p := New("poked", time.Hour, func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&n, 1), nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&n) == 1 }, time.Second, time.Millisecond)
	p.Poke()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&n) == 2 }, time.Second, time.Millisecond)
}

func TestRun_WaitsForInFlightFetches(t *testing.T) {
	started := make(chan struct{})
	var finished int32
	p := New("slow", time.Hour, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
		return 0, ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { _ = p.Run(ctx); close(done) }()

	<-started
	cancel()
	<-done
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
	assert.Equal(t, 0, p.Snapshot().Fetches, "results arriving after teardown are dropped")
}

func TestRun_RejectsZeroInterval(t *testing.T) {
	p := New("bad", 0, func(ctx context.Context) (int, error) { return 0, nil })
	assert.Error(t, p.Run(context.Background()))
}
