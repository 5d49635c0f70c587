package models

import (
	"time"

	"diyivi/internal/session"
	"diyivi/internal/yivi"
)

// Session is a two-party attribute exchange in progress. The initiator names
// the attribute groups; the responder satisfies the derived ConDisCon through
// the verifier. DisclosedValues is written exactly once, on resolution.
//
// The id is an unguessable token but travels in URLs, so it alone never
// authorizes the initiator view: reading results or cancelling requires the
// initiator secret, which is stored only as a bcrypt hash.
type Session struct {
	session.Session

	InitiatorSecretHash string
	GroupKeys           []string
	Attributes          []yivi.Attribute
	Request             yivi.ConDisCon

	DisclosedValues map[yivi.Attribute]yivi.TranslatedString
	ResolvedAt      *time.Time
}

// CreateResult is handed back to the initiator on creation. The secret is
// returned exactly once and never stored in plaintext.
type CreateResult struct {
	ID         string
	Secret     string
	ExpiresAt  time.Time
	RequestJWT string
}

// ResponderView is what a responder may learn about an exchange before
// disclosing: the requested attributes and the signed request to feed the
// verifier app.
type ResponderView struct {
	Status     session.Status
	Attributes []yivi.Attribute
	RequestJWT string
}

// InitiatorView is the polling view for the initiator: current status and,
// once resolved, the disclosed values.
type InitiatorView struct {
	Status          session.Status
	ExpiresAt       time.Time
	DisclosedValues map[yivi.Attribute]yivi.TranslatedString
}
