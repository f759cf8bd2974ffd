// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrUnknownTenant indicates a tenant identifier outside the configured catalog.
var ErrUnknownTenant = errors.New("unknown tenant")

// ErrInvalidMessage indicates an absent or empty-after-trim message.
var ErrInvalidMessage = errors.New("invalid message")

// ErrMessageTooLong indicates a message whose raw length exceeds the maximum.
var ErrMessageTooLong = errors.New("message too long")
