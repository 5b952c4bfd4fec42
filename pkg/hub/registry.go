package hub

// subscribe inserts s, enforcing the duplicate-forbidden policy: one active
// subscription per (topic, subscriber identity). keep, when non-nil, is the
// strong reference pinned in the keep-alive table for s's lifetime.
func (h *Hub) subscribe(s *subscription, keep any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sweepLocked()

	pk := s.pairKey()
	if _, exists := h.index[pk]; exists {
		return ErrAlreadySubscribed
	}

	h.topics[s.topic] = append(h.topics[s.topic], s)
	h.index[pk] = s
	if keep != nil {
		h.keepAlive[pk] = keep
	}
	h.syncGaugesLocked()

	h.logger.Debug("subscribed ", s.topic.String(), " id=", s.id, " retained=", s.retained)
	return nil
}

// unsubscribe removes the subscription for (topic, subscriber identity) along
// with its keep-alive entry. It is idempotent: a missing subscription is not
// an error, and the subscriber behind subKey may already be collected.
func (h *Hub) unsubscribe(topic topicKey, subKey any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pk := pairKey{topic: topic, sub: subKey}
	if s, ok := h.index[pk]; ok {
		h.removeLocked(s)
		h.logger.Debug("unsubscribed ", topic.String(), " id=", s.id)
	}
	delete(h.keepAlive, pk)

	h.sweepLocked()
	h.syncGaugesLocked()
}

func (h *Hub) removeLocked(s *subscription) {
	delete(h.index, s.pairKey())
	subs := h.topics[s.topic]
	for i, cur := range subs {
		if cur == s {
			h.topics[s.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(h.topics[s.topic]) == 0 {
		delete(h.topics, s.topic)
	}
}

// send delivers to every live, matching, still-subscribed handler in snapshot
// order. The snapshot is taken under the read lock; invocation happens with
// no lock held, so handlers are free to subscribe, unsubscribe (including
// themselves or a later entry of the same batch) or send.
//
// A handler panic propagates to the caller and the rest of the snapshot is
// not invoked; the hub never recovers, logs or suppresses handler failures.
func (h *Hub) send(topic topicKey, sender, senderKey, args any) {
	h.mu.RLock()
	subs := h.topics[topic]
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.sends.Inc()
	}

	for _, s := range snapshot {
		live := s.sub.value()
		if live == nil {
			h.metrics.skip(skipDead)
			continue
		}
		if s.filter != nil && s.filter != senderKey {
			h.metrics.skip(skipFiltered)
			continue
		}
		// Re-check membership right before invocation: an entry
		// unsubscribed after the snapshot was taken must not fire.
		if !h.active(s) {
			h.metrics.skip(skipUnsubscribed)
			continue
		}
		s.invoke(live, sender, args)
		if h.metrics != nil {
			h.metrics.deliveries.Inc()
		}
	}
}

func (h *Hub) active(s *subscription) bool {
	h.mu.RLock()
	cur, ok := h.index[s.pairKey()]
	h.mu.RUnlock()
	return ok && cur == s
}

// sweepLocked drops subscriptions whose subscriber has been collected. Best
// effort compaction only; send's per-delivery liveness check is the actual
// safety net. Keep-alive entries pin their subscriber, so retained
// subscriptions are never swept.
func (h *Hub) sweepLocked() {
	for key, subs := range h.topics {
		n := 0
		for _, s := range subs {
			if s.sub.value() != nil {
				subs[n] = s
				n++
				continue
			}
			delete(h.index, s.pairKey())
			delete(h.keepAlive, s.pairKey())
			h.sweptN++
			if h.metrics != nil {
				h.metrics.swept.Inc()
			}
		}
		switch {
		case n == 0:
			delete(h.topics, key)
		case n < len(subs):
			for i := n; i < len(subs); i++ {
				subs[i] = nil
			}
			h.topics[key] = subs[:n]
		}
	}
}

func (h *Hub) syncGaugesLocked() {
	if h.metrics == nil {
		return
	}
	h.metrics.subscriptions.Set(float64(len(h.index)))
	h.metrics.keepAlive.Set(float64(len(h.keepAlive)))
}
