package models

import (
	"time"

	"diyivi/internal/session"
	"diyivi/internal/yivi"
)

// Session is a signature request in progress: the initiator names a message
// and the attribute groups the signer must disclose; the responder returns an
// attribute-based signature over exactly that message. Signature and
// DisclosedValues are written once, on resolution.
type Session struct {
	session.Session

	InitiatorSecretHash string
	GroupKeys           []string
	Attributes          []yivi.Attribute
	Request             yivi.ConDisCon
	Message             string

	Signature       *yivi.SignedMessage
	DisclosedValues map[yivi.Attribute]yivi.TranslatedString
	ResolvedAt      *time.Time
}

// CreateResult is handed back to the initiator on creation.
type CreateResult struct {
	ID         string
	Secret     string
	ExpiresAt  time.Time
	RequestJWT string
}

// ResponderView is what the signer sees before signing: the message, the
// required attributes, and the signed signature request for the verifier app.
type ResponderView struct {
	Status     session.Status
	Message    string
	Attributes []yivi.Attribute
	RequestJWT string
}

// InitiatorView is the polling view for the initiator.
type InitiatorView struct {
	Status          session.Status
	ExpiresAt       time.Time
	Message         string
	Signature       *yivi.SignedMessage
	DisclosedValues map[yivi.Attribute]yivi.TranslatedString
}
