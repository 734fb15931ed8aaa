package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RequestID ID
	FieldKey  ID
	GroupKey  ID
)

func (id RequestID) String() string { return ID(id).String() }
func (k FieldKey) String() string   { return ID(k).String() }
func (k GroupKey) String() string   { return ID(k).String() }

// ParseFieldKey parses a string into FieldKey
func ParseFieldKey(s string) (FieldKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", NewValidationError("field", "key cannot be empty")
	}
	return FieldKey(s), nil
}

// ParseGroupKey parses a string into GroupKey
func ParseGroupKey(s string) (GroupKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", NewValidationError("group", "key cannot be empty")
	}
	return GroupKey(s), nil
}
