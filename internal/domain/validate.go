package domain

import "regexp"

// Field length limits enforced on all stream references.
const (
	MaxDomainLen    = 64
	MaxStreamIDLen  = 200
	MaxNamespaceLen = 200
	MaxEventTypeLen = 200
)

var storeNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,63}$`)

// ValidateStoreName checks that name is a valid table-name prefix: a
// logical store name, alphanumeric plus underscore, at most 63 characters.
func ValidateStoreName(name string) error {
	if !storeNamePattern.MatchString(name) {
		return NewValidationError("storeName", "must match ^[A-Za-z0-9_]{1,63}$")
	}
	return nil
}

// ValidateStreamRef enforces the Domain/StreamId length limits.
func ValidateStreamRef(domainName, streamID string) error {
	if domainName == "" {
		return NewValidationError("domain", "must not be empty")
	}
	if len(domainName) > MaxDomainLen {
		return NewValidationError("domain", "must be at most 64 characters")
	}
	if streamID == "" {
		return NewValidationError("streamId", "must not be empty")
	}
	if len(streamID) > MaxStreamIDLen {
		return NewValidationError("streamId", "must be at most 200 characters")
	}
	return nil
}

// ValidateNamespace enforces the Namespace length limit. Empty string is
// allowed.
func ValidateNamespace(namespace string) error {
	if len(namespace) > MaxNamespaceLen {
		return NewValidationError("namespace", "must be at most 200 characters")
	}
	return nil
}

// ValidateEventType enforces the EventType length limit.
func ValidateEventType(eventType string) error {
	if eventType == "" {
		return NewValidationError("eventType", "must not be empty")
	}
	if len(eventType) > MaxEventTypeLen {
		return NewValidationError("eventType", "must be at most 200 characters")
	}
	return nil
}
