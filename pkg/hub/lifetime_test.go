package hub

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emitter plays the publisher in the lifetime tests.
type emitter struct{ name string }

// waitCollected runs GC cycles until the weak pointer is cleared or the
// attempt budget runs out.
func waitCollected[T any](wp weak.Pointer[T]) bool {
	for i := 0; i < 20; i++ {
		runtime.GC()
		if wp.Value() == nil {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// stillAlive runs a few GC cycles and reports whether the referent survived
// all of them.
func stillAlive[T any](wp weak.Pointer[T]) bool {
	for i := 0; i < 5; i++ {
		runtime.GC()
		if wp.Value() == nil {
			return false
		}
	}
	return true
}

//go:noinline
func subscribeIndependent(t *testing.T, h *Hub, src *emitter, fired *atomic.Int32) weak.Pointer[recorder] {
	t.Helper()
	r := new(recorder)
	require.NoError(t, Subscribe(h, r, "lifetime.independent", func(s *emitter, n int) {
		fired.Add(1)
	}))
	// Deliver once while the subscriber is provably alive.
	require.NoError(t, Send(h, src, "lifetime.independent", 1))
	wp := weak.Make(r)
	runtime.KeepAlive(r)
	return wp
}

func TestIndependent_SubscriberCollectibleWithoutUnsubscribe(t *testing.T) {
	h := New()
	src := &emitter{name: "src"}
	var fired atomic.Int32

	wp := subscribeIndependent(t, h, src, &fired)
	require.EqualValues(t, 1, fired.Load())

	// The caller dropped its only reference; the hub must not be the reason
	// the subscriber stays alive.
	require.True(t, waitCollected(wp), "subscriber should be collectible while still subscribed")

	// Delivery to the collected subscriber is skipped, not an error.
	require.NoError(t, Send(h, src, "lifetime.independent", 2))
	assert.EqualValues(t, 1, fired.Load())

	// The next registry mutation sweeps the dead entry out.
	other := new(recorder)
	require.NoError(t, Subscribe(h, other, "lifetime.other", func(s *emitter, n int) {}))
	st := h.Stats()
	assert.Equal(t, 1, st.Subscriptions)
	assert.GreaterOrEqual(t, st.Swept, uint64(1))
	runtime.KeepAlive(other)
}

//go:noinline
func subscribeRetained(t *testing.T, h *Hub, fired *atomic.Int32) weak.Pointer[recorder] {
	t.Helper()
	r := new(recorder)
	// The handler closes over r, so the only strong path to r runs through
	// the closure the hub holds. WithRetain declares exactly that.
	require.NoError(t, Subscribe(h, r, "lifetime.retained", func(s *emitter, msg string) {
		r.got = msg
		fired.Add(1)
	}, WithRetain()))
	return weak.Make(r)
}

func TestRetained_SubscriberSurvivesUntilUnsubscribe(t *testing.T) {
	h := New()
	src := &emitter{name: "src"}
	var fired atomic.Int32

	wp := subscribeRetained(t, h, &fired)
	require.Equal(t, 1, h.Stats().KeepAlive)

	// The caller holds no reference anymore, yet the keep-alive entry must
	// pin the subscriber and the handler must keep firing.
	require.True(t, stillAlive(wp), "retained subscriber must survive GC")
	require.NoError(t, Send(h, src, "lifetime.retained", "still here"))
	require.EqualValues(t, 1, fired.Load())

	// Unsubscribe releases the pin; the subscriber becomes collectible and
	// the handler goes silent.
	r := wp.Value()
	require.NotNil(t, r)
	require.NoError(t, Unsubscribe[emitter, string](h, r, "lifetime.retained"))
	assert.Equal(t, 0, h.Stats().KeepAlive)

	require.True(t, waitCollected(wp), "subscriber should be collectible after unsubscribe")
	require.NoError(t, Send(h, src, "lifetime.retained", "gone"))
	assert.EqualValues(t, 1, fired.Load())
}

//go:noinline
func subscribeBound(t *testing.T, h *Hub, src *emitter, fired *atomic.Int32) weak.Pointer[recorder] {
	t.Helper()
	r := new(recorder)
	require.NoError(t, SubscribeBound(h, r, "lifetime.bound", func(r *recorder, s *emitter, n int) {
		r.fires++
		fired.Add(1)
	}))
	require.NoError(t, Send(h, src, "lifetime.bound", 1))
	wp := weak.Make(r)
	runtime.KeepAlive(r)
	return wp
}

func TestBound_HandlerDiesWithSubscriber(t *testing.T) {
	h := New()
	src := &emitter{name: "src"}
	var fired atomic.Int32

	wp := subscribeBound(t, h, src, &fired)
	require.EqualValues(t, 1, fired.Load())

	// Bound handlers take the subscriber as a parameter instead of capturing
	// it, so the hub's strong grip on the func value retains nothing.
	require.True(t, waitCollected(wp), "bound subscriber should be collectible")
	require.NoError(t, Send(h, src, "lifetime.bound", 2))
	assert.EqualValues(t, 1, fired.Load())
}

func TestRetained_IgnoredForBoundHandlers(t *testing.T) {
	h := New()
	r := new(recorder)

	// WithRetain on a bound subscription is meaningless: the self-bound
	// class wins and no keep-alive entry may be created.
	require.NoError(t, SubscribeBound(h, r, "lifetime.bound-retain", func(r *recorder, s *emitter, n int) {}, WithRetain()))
	assert.Equal(t, 0, h.Stats().KeepAlive)
	runtime.KeepAlive(r)
}

func TestUnsubscribe_AfterSubscriberCollected(t *testing.T) {
	h := New()
	var fired atomic.Int32
	src := &emitter{}

	wp := subscribeIndependent(t, h, src, &fired)
	require.True(t, waitCollected(wp))

	// Unsubscribing on behalf of an already-collected subscriber needs a
	// live pointer in this API, so sweeping is what reclaims the entry;
	// here we only prove the registry converges and Send stays quiet.
	require.NoError(t, Send(h, src, "lifetime.independent", 3))
	assert.EqualValues(t, 1, fired.Load())
}

func TestClassifyHandler(t *testing.T) {
	tests := []struct {
		bound  bool
		retain bool
		want   handlerClass
	}{
		{bound: true, retain: false, want: classSelfBound},
		{bound: true, retain: true, want: classSelfBound},
		{bound: false, retain: true, want: classCapturing},
		{bound: false, retain: false, want: classIndependent},
	}
	for _, tt := range tests {
		if got := classifyHandler(tt.bound, tt.retain); got != tt.want {
			t.Errorf("classifyHandler(%v, %v) = %v, want %v", tt.bound, tt.retain, got, tt.want)
		}
	}
}
