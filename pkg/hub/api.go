package hub

import "reflect"

// The functions below are the hub's call surface. They are package-level
// generics rather than methods because Go methods cannot introduce type
// parameters; each one derives the topic key from the message name and the
// declared sender/argument types and hands off to the registry.
//
// Lifetime classes, in the order the guard applies them:
//
//   - SubscribeBound / SubscribeBoundEvent: self-bound. The handler receives
//     the live subscriber as its first parameter, so the func value does not
//     capture it. The hub holds only a weak handle; once the caller drops the
//     subscriber it becomes collectible and deliveries stop.
//   - Subscribe / SubscribeEvent with WithRetain: capturing. The caller
//     declares the handler closure captures the subscriber; the hub pins the
//     subscriber in its keep-alive table until Unsubscribe.
//   - Subscribe / SubscribeEvent otherwise: independent. The hub holds no
//     strong reference; the subscriber's lifetime is entirely the caller's.

// Subscribe registers handler for messages named name sent with sender type S
// and argument type A. At most one active subscription per (topic,
// subscriber) pair is allowed; a second returns ErrAlreadySubscribed.
func Subscribe[S any, A any, Sub any](h *Hub, subscriber *Sub, name string, handler func(sender *S, args A), opts ...SubscribeOption) error {
	if err := validateSubscribe(subscriber == nil, name, handler == nil); err != nil {
		return err
	}
	cfg := applyOptions(opts)
	s := &subscription{
		topic:  newTopicKey(name, reflect.TypeFor[S](), reflect.TypeFor[A]()),
		sub:    makeHandle(subscriber),
		filter: cfg.filter,
		invoke: func(_, sender, args any) {
			handler(sender.(*S), args.(A))
		},
	}
	return h.register(s, classifyHandler(false, cfg.retain), subscriber)
}

// SubscribeEvent registers handler for the no-argument topic (name, S).
func SubscribeEvent[S any, Sub any](h *Hub, subscriber *Sub, name string, handler func(sender *S), opts ...SubscribeOption) error {
	if err := validateSubscribe(subscriber == nil, name, handler == nil); err != nil {
		return err
	}
	cfg := applyOptions(opts)
	s := &subscription{
		topic:  newTopicKey(name, reflect.TypeFor[S](), noArgsType),
		sub:    makeHandle(subscriber),
		filter: cfg.filter,
		invoke: func(_, sender, _ any) {
			handler(sender.(*S))
		},
	}
	return h.register(s, classifyHandler(false, cfg.retain), subscriber)
}

// SubscribeBound registers a handler that is a function of the subscriber
// itself: the hub resolves the weak handle at delivery time and passes the
// live subscriber in. Use this instead of closing over the subscriber when
// the subscription should not outlive it.
func SubscribeBound[S any, A any, Sub any](h *Hub, subscriber *Sub, name string, handler func(subscriber *Sub, sender *S, args A), opts ...SubscribeOption) error {
	if err := validateSubscribe(subscriber == nil, name, handler == nil); err != nil {
		return err
	}
	cfg := applyOptions(opts)
	s := &subscription{
		topic:  newTopicKey(name, reflect.TypeFor[S](), reflect.TypeFor[A]()),
		sub:    makeHandle(subscriber),
		filter: cfg.filter,
		invoke: func(live, sender, args any) {
			handler(live.(*Sub), sender.(*S), args.(A))
		},
	}
	return h.register(s, classifyHandler(true, cfg.retain), subscriber)
}

// SubscribeBoundEvent is SubscribeBound for no-argument topics.
func SubscribeBoundEvent[S any, Sub any](h *Hub, subscriber *Sub, name string, handler func(subscriber *Sub, sender *S), opts ...SubscribeOption) error {
	if err := validateSubscribe(subscriber == nil, name, handler == nil); err != nil {
		return err
	}
	cfg := applyOptions(opts)
	s := &subscription{
		topic:  newTopicKey(name, reflect.TypeFor[S](), noArgsType),
		sub:    makeHandle(subscriber),
		filter: cfg.filter,
		invoke: func(live, sender, _ any) {
			handler(live.(*Sub), sender.(*S))
		},
	}
	return h.register(s, classifyHandler(true, cfg.retain), subscriber)
}

// Unsubscribe removes the subscriber's subscription for the topic (name, S,
// A), if any, along with its keep-alive entry. It is idempotent and safe to
// call from inside a handler running for the same topic. S and A must be
// named explicitly: Unsubscribe[Page, string](h, sub, "Greeting").
func Unsubscribe[S any, A any, Sub any](h *Hub, subscriber *Sub, name string) error {
	if err := validateUnsubscribe(subscriber == nil, name); err != nil {
		return err
	}
	h.unsubscribe(newTopicKey(name, reflect.TypeFor[S](), reflect.TypeFor[A]()), identityKey(subscriber))
	return nil
}

// UnsubscribeEvent is Unsubscribe for no-argument topics.
func UnsubscribeEvent[S any, Sub any](h *Hub, subscriber *Sub, name string) error {
	if err := validateUnsubscribe(subscriber == nil, name); err != nil {
		return err
	}
	h.unsubscribe(newTopicKey(name, reflect.TypeFor[S](), noArgsType), identityKey(subscriber))
	return nil
}

// Send delivers args to every live subscription of the topic (name, S, A),
// synchronously, in snapshot order. A topic with no subscribers is a no-op.
func Send[S any, A any](h *Hub, sender *S, name string, args A) error {
	if err := validateSend(sender == nil, name); err != nil {
		return err
	}
	h.send(newTopicKey(name, reflect.TypeFor[S](), reflect.TypeFor[A]()), sender, identityKey(sender), args)
	return nil
}

// SendEvent is Send for no-argument topics.
func SendEvent[S any](h *Hub, sender *S, name string) error {
	if err := validateSend(sender == nil, name); err != nil {
		return err
	}
	h.send(newTopicKey(name, reflect.TypeFor[S](), noArgsType), sender, identityKey(sender), noArgs{})
	return nil
}
