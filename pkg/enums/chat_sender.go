package enums

import "fmt"

// ChatSender identifies who authored a chat message.
type ChatSender string

const (
	ChatSenderCustomer ChatSender = "customer"
	ChatSenderBot      ChatSender = "bot"
)

var validChatSenders = []ChatSender{
	ChatSenderCustomer,
	ChatSenderBot,
}

// String implements fmt.Stringer.
func (c ChatSender) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatSender.
func (c ChatSender) IsValid() bool {
	for _, candidate := range validChatSenders {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatSender converts raw input into a ChatSender.
func ParseChatSender(value string) (ChatSender, error) {
	for _, candidate := range validChatSenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat sender %q", value)
}
