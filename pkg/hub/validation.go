package hub

// ValidateMessageName validates a message name
func ValidateMessageName(name string) error {
	if name == "" {
		return emptyArgument("message name")
	}
	return nil
}

func validateSubscribe(subscriberNil bool, name string, handlerNil bool) error {
	if subscriberNil {
		return nilArgument("subscriber")
	}
	if err := ValidateMessageName(name); err != nil {
		return err
	}
	if handlerNil {
		return nilArgument("handler")
	}
	return nil
}

func validateSend(senderNil bool, name string) error {
	if senderNil {
		return nilArgument("sender")
	}
	return ValidateMessageName(name)
}

func validateUnsubscribe(subscriberNil bool, name string) error {
	if subscriberNil {
		return nilArgument("subscriber")
	}
	return ValidateMessageName(name)
}
