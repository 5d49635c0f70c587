// Package yivi holds the wire vocabulary of the external attribute-based
// credential verifier: attribute identifiers, the ConDisCon disclosure-request
// grammar, and the disclosed-attribute shapes that come back in session results.
package yivi

import "strings"

// Attribute is a dotted namespaced identifier naming one attestable fact,
// e.g. "irma-demo.gemeente.personalData.fullname". The prefix up to the last
// segment identifies the credential the attribute belongs to.
type Attribute string

// Credential returns the credential namespace of the attribute: the identifier
// minus its final dotted segment. Returns false when the identifier carries no
// separator and therefore no namespace.
func (a Attribute) Credential() (string, bool) {
	idx := strings.LastIndex(string(a), ".")
	if idx <= 0 {
		return "", false
	}
	return string(a)[:idx], true
}

// TranslatedString maps a language tag to a localized rendering of a value,
// e.g. {"en": "Yes", "nl": "Ja"}.
type TranslatedString map[string]string

// Con is a conjunction of attributes that must all be disclosed from a single
// credential instance.
type Con []Attribute

// Dis is a disjunction of conjunctions: the responder satisfies it by
// disclosing any one of the inner conjunctions.
type Dis []Con

// ConDisCon is the top-level conjunction of disjunctions of conjunctions the
// verifier requires for disclosure requests.
type ConDisCon []Dis

// SessionStatus is the lifecycle status the verifier reports for its own
// sessions.
type SessionStatus string

const (
	SessionStatusInitialized SessionStatus = "INITIALIZED"
	SessionStatusPairing     SessionStatus = "PAIRING"
	SessionStatusConnected   SessionStatus = "CONNECTED"
	SessionStatusCancelled   SessionStatus = "CANCELLED"
	SessionStatusDone        SessionStatus = "DONE"
	SessionStatusTimeout     SessionStatus = "TIMEOUT"
)

// ProofStatus reports the cryptographic validity of a disclosure proof.
type ProofStatus string

const (
	ProofStatusValid            ProofStatus = "VALID"
	ProofStatusInvalid          ProofStatus = "INVALID"
	ProofStatusInvalidTimestamp ProofStatus = "INVALID_TIMESTAMP"
	ProofStatusUnmatchedRequest ProofStatus = "UNMATCHED_REQUEST"
	ProofStatusMissingAttrs     ProofStatus = "MISSING_ATTRIBUTES"
	ProofStatusExpired          ProofStatus = "EXPIRED"
)

// DisclosedAttribute is one verifier-attested attribute value from a session
// result. Value carries at least one localized string form; RawValue may be
// empty for attributes disclosed as present-but-null.
type DisclosedAttribute struct {
	ID           Attribute        `json:"id"`
	Status       string           `json:"status"`
	RawValue     string           `json:"rawvalue"`
	Value        TranslatedString `json:"value"`
	IssuanceTime string           `json:"issuancetime"`
}

// SignedMessage is the signature artifact the verifier returns for signature
// sessions. The core treats it as opaque apart from the message binding check.
type SignedMessage struct {
	Message   string           `json:"message"`
	Timestamp int64            `json:"timestamp,omitempty"`
	Signature []map[string]any `json:"signature,omitempty"`
}
