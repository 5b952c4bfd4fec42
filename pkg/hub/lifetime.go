package hub

import "github.com/google/uuid"

// handlerClass is the Lifetime Guard's verdict on a handler: whether the
// registry must hold a strong reference somewhere to keep the subscriber
// alive, or whether the weak handle suffices.
//
// Go offers no way to inspect a closure's capture set, so capture intent is
// declared at the call site rather than detected by reflection: bound
// subscriptions pass the handler the live subscriber (so the func value
// captures nothing), and WithRetain declares that a closure captures the
// subscriber and must be kept alive by the hub.
type handlerClass int

const (
	// classSelfBound: the handler is a function of the subscriber itself.
	// The registry resolves the weak handle at delivery and passes the live
	// subscriber in, so no strong reference is needed; adding one would be
	// the exact leak the weak handle exists to avoid.
	classSelfBound handlerClass = iota

	// classCapturing: the caller declared that the handler closure captures
	// the subscriber. The only strong path to the subscriber runs through
	// the closure held by the registry, so the registry must pin the
	// subscriber in the keep-alive table until Unsubscribe.
	classCapturing

	// classIndependent: the handler references neither the subscriber nor
	// captures it. The subscriber's lifetime is the caller's concern.
	classIndependent
)

func (c handlerClass) String() string {
	switch c {
	case classSelfBound:
		return "self-bound"
	case classCapturing:
		return "capturing"
	default:
		return "independent"
	}
}

// classifyHandler applies the guard's decision order: a bound handler is
// self-bound no matter what was declared, then declared capture, then
// independent.
func classifyHandler(bound, retainDeclared bool) handlerClass {
	switch {
	case bound:
		return classSelfBound
	case retainDeclared:
		return classCapturing
	default:
		return classIndependent
	}
}

// register applies the guard's verdict and inserts the subscription. Only the
// capturing class puts a strong reference into the keep-alive table;
// everywhere else the hub stays non-owning.
func (h *Hub) register(s *subscription, class handlerClass, subscriber any) error {
	s.id = uuid.New()
	var keep any
	if class == classCapturing {
		s.retained = true
		keep = subscriber
	}
	return h.subscribe(s, keep)
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	filter any
	retain bool
}

func applyOptions(opts []SubscribeOption) subscribeConfig {
	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithRetain declares that the handler closure captures the subscriber. The
// hub then holds a strong reference to the subscriber until Unsubscribe, so
// the handler keeps firing even after the caller drops its own references.
//
// An undeclared capturing closure may be retained anyway, since the hub holds
// the handler func strongly for the life of the subscription. Declaring it
// makes the retention intentional: it shows up as a keep-alive entry in
// Stats and is released deterministically by Unsubscribe.
func WithRetain() SubscribeOption {
	return func(c *subscribeConfig) {
		c.retain = true
	}
}

// FromSender restricts a subscription to messages published by exactly this
// sender instance. Matching is by identity, not equality. A nil sender leaves
// the subscription unfiltered.
func FromSender[S any](sender *S) SubscribeOption {
	if sender == nil {
		return func(c *subscribeConfig) {}
	}
	key := identityKey(sender)
	return func(c *subscribeConfig) {
		c.filter = key
	}
}
