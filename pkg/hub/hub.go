// Package hub is a process-local, typed publish/subscribe message bus.
//
// Topics are identified by a message name together with the sender and
// argument types of the call site. Delivery is synchronous on the caller's
// goroutine, best effort, and in-memory only: there is no transport, no
// persistence and no retry.
//
// The hub tracks subscribers through weak references and holds no strong
// reference to them of its own, with one structural caveat: handler funcs are
// held strongly for the life of their subscription, so a closure that
// captures its subscriber keeps it reachable until Unsubscribe. Bound
// subscriptions avoid the capture entirely, and WithRetain declares it
// explicitly, recording a keep-alive entry that Stats reports and
// Unsubscribe releases. See the Subscribe variants for the three lifetime
// classes.
package hub

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Hub is a subscription registry. The zero value is not usable; create one
// with New or use the process-wide Default instance.
//
// All methods are safe for concurrent use. A Hub lives for the life of the
// process; there is no shutdown API and nothing to release.
type Hub struct {
	mu        sync.RWMutex
	topics    map[topicKey][]*subscription
	index     map[pairKey]*subscription
	keepAlive map[pairKey]any
	sweptN    uint64

	logger  Logger
	metrics *metrics
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub's logger.
func WithLogger(l Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics registers the hub's prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(h *Hub) {
		h.metrics = newMetrics(reg)
	}
}

// New creates an empty Hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		topics:    make(map[topicKey][]*subscription),
		index:     make(map[pairKey]*subscription),
		keepAlive: make(map[pairKey]any),
		logger:    NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var (
	defaultHub  *Hub
	defaultOnce sync.Once
)

// Default returns the process-wide hub instance. It is a call-site
// convenience only; collaborators should normally receive an explicit *Hub.
func Default() *Hub {
	defaultOnce.Do(func() {
		defaultHub = New()
	})
	return defaultHub
}

// TopicStats describes one topic currently known to the hub.
type TopicStats struct {
	Message     string `json:"message"`
	Sender      string `json:"sender"`
	Args        string `json:"args,omitempty"`
	Subscribers int    `json:"subscribers"`
}

// Stats is a point-in-time snapshot of the hub's registry state.
type Stats struct {
	Topics        []TopicStats `json:"topics"`
	Subscriptions int          `json:"subscriptions"`
	KeepAlive     int          `json:"keep_alive"`
	Swept         uint64       `json:"swept"`
}

// Stats snapshots the registry for introspection and tests.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st := Stats{
		KeepAlive: len(h.keepAlive),
		Swept:     h.sweptN,
	}
	for key, subs := range h.topics {
		ts := TopicStats{
			Message:     key.name,
			Sender:      key.sender.String(),
			Subscribers: len(subs),
		}
		if key.args != noArgsType {
			ts.Args = key.args.String()
		}
		st.Topics = append(st.Topics, ts)
		st.Subscriptions += len(subs)
	}
	sort.Slice(st.Topics, func(i, j int) bool {
		if st.Topics[i].Message != st.Topics[j].Message {
			return st.Topics[i].Message < st.Topics[j].Message
		}
		if st.Topics[i].Sender != st.Topics[j].Sender {
			return st.Topics[i].Sender < st.Topics[j].Sender
		}
		return st.Topics[i].Args < st.Topics[j].Args
	})
	return st
}
