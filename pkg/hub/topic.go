package hub

import "reflect"

// topicKey identifies one logical channel. Two subscriptions share a channel
// iff message name, sender type and argument type all match exactly.
//
// reflect.Type values are canonical per type, so topicKey is comparable and
// derivation is pure: the same three inputs always produce an equal key.
type topicKey struct {
	name   string
	sender reflect.Type
	args   reflect.Type
}

// noArgs marks topics whose handlers take no payload. It is a distinct type
// so that a no-argument topic never collides with a topic carrying struct{}.
type noArgs struct{}

var noArgsType = reflect.TypeFor[noArgs]()

func newTopicKey(name string, sender, args reflect.Type) topicKey {
	return topicKey{name: name, sender: sender, args: args}
}

func (k topicKey) String() string {
	if k.args == noArgsType {
		return k.name + "<" + k.sender.String() + ">"
	}
	return k.name + "<" + k.sender.String() + "," + k.args.String() + ">"
}
