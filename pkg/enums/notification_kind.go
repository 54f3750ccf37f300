package enums

import "fmt"

// NotificationKind classifies dashboard notification feed entries.
type NotificationKind string

const (
	NotificationOrderCreated       NotificationKind = "order_created"
	NotificationOrderStatusChanged NotificationKind = "order_status_changed"
)

var validNotificationKinds = []NotificationKind{
	NotificationOrderCreated,
	NotificationOrderStatusChanged,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
