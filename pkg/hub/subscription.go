package hub

import (
	"weak"

	"github.com/google/uuid"
)

// handle is a non-owning reference to a subscriber. The registry uses it for
// liveness checks and identity comparison only; it never keeps the subscriber
// reachable on its own.
type handle struct {
	// key is the boxed weak.Pointer. Two weak pointers made from the same
	// strong pointer compare equal, and the key stays valid for map lookups
	// even after the referent is collected.
	key any

	// value resolves the subscriber, or nil once it has been collected.
	value func() any
}

func makeHandle[T any](p *T) handle {
	wp := weak.Make(p)
	return handle{
		key: wp,
		value: func() any {
			if v := wp.Value(); v != nil {
				return v
			}
			return nil
		},
	}
}

// identityKey returns the comparable identity surrogate for p, matching the
// key a handle made from the same pointer would carry.
func identityKey[T any](p *T) any {
	return weak.Make(p)
}

// pairKey identifies the at-most-one active subscription a subscriber may
// hold per topic, and keys the keep-alive table.
type pairKey struct {
	topic topicKey
	sub   any
}

// subscription is one active registration.
type subscription struct {
	id    uuid.UUID
	topic topicKey
	sub   handle

	// filter, when non-nil, is the identity key of the only sender instance
	// this subscription reacts to.
	filter any

	// retained reports whether the keep-alive table holds a strong reference
	// to the subscriber on this subscription's behalf.
	retained bool

	// invoke calls the handler. live is the resolved subscriber, passed
	// through so bound handlers receive it without capturing it.
	invoke func(live, sender, args any)
}

func (s *subscription) pairKey() pairKey {
	return pairKey{topic: s.topic, sub: s.sub.key}
}
