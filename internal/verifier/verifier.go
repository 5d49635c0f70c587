// Package verifier is the boundary to the external attribute-based credential
// verifier. The core hands it a ConDisCon plus a proof artifact and receives
// validated disclosures back; the cryptographic proof system itself stays on
// the other side of this boundary.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

//go:generate mockgen -source=verifier.go -destination=mocks/mocks.go -package=mocks Verifier

// Verifier validates proof artifacts against a disclosure request.
//
// Error contract: a rejected or malformed proof, a proof that does not cover
// the request, and a verifier timeout all surface as CodeProofInvalid.
type Verifier interface {
	// VerifyDisclosure checks the proof against the request and returns the
	// disclosed attribute sets, one per satisfied conjunction.
	VerifyDisclosure(ctx context.Context, request yivi.ConDisCon, proof string) ([][]yivi.DisclosedAttribute, error)

	// VerifySignature additionally checks that the signed payload binds to
	// the exact message string, preventing substitution.
	VerifySignature(ctx context.Context, message string, request yivi.ConDisCon, proof string) (*yivi.SignedMessage, [][]yivi.DisclosedAttribute, error)
}

type disclosureResultClaims struct {
	jwt.RegisteredClaims
	Type        string                      `json:"type"`
	Status      yivi.SessionStatus          `json:"status"`
	Token       string                      `json:"token"`
	ProofStatus yivi.ProofStatus            `json:"proofStatus"`
	Disclosed   [][]yivi.DisclosedAttribute `json:"disclosed"`
}

type signatureResultClaims struct {
	disclosureResultClaims
	Signature *yivi.SignedMessage `json:"signature"`
}

// JWTVerifier validates session result JWTs issued by the verifier server.
// The shared secret is the same HS256 key used for session request JWTs.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier builds a verifier for HS256-signed session results.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) keyFunc(*jwt.Token) (any, error) {
	return v.secret, nil
}

func proofInvalid(format string, args ...any) error {
	return dErrors.New(dErrors.CodeProofInvalid, fmt.Sprintf(format, args...))
}

func (v *JWTVerifier) VerifyDisclosure(ctx context.Context, request yivi.ConDisCon, proof string) ([][]yivi.DisclosedAttribute, error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProofInvalid, "verifier deadline exceeded")
	}

	var claims disclosureResultClaims
	if _, err := jwt.ParseWithClaims(proof, &claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProofInvalid, "invalid session result JWT")
	}
	if claims.Subject != "disclosing_result" || claims.Type != "disclosing" {
		return nil, proofInvalid("unexpected session result type %q", claims.Type)
	}
	if err := checkResult(claims, request); err != nil {
		return nil, err
	}
	return claims.Disclosed, nil
}

func (v *JWTVerifier) VerifySignature(ctx context.Context, message string, request yivi.ConDisCon, proof string) (*yivi.SignedMessage, [][]yivi.DisclosedAttribute, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeProofInvalid, "verifier deadline exceeded")
	}

	var claims signatureResultClaims
	if _, err := jwt.ParseWithClaims(proof, &claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeProofInvalid, "invalid session result JWT")
	}
	if claims.Subject != "signing_result" || claims.Type != "signing" {
		return nil, nil, proofInvalid("unexpected session result type %q", claims.Type)
	}
	if err := checkResult(claims.disclosureResultClaims, request); err != nil {
		return nil, nil, err
	}
	if claims.Signature == nil {
		return nil, nil, proofInvalid("session result carries no signature")
	}
	if claims.Signature.Message != message {
		return nil, nil, proofInvalid("signed message does not match the requested message")
	}
	return claims.Signature, claims.Disclosed, nil
}

func checkResult(claims disclosureResultClaims, request yivi.ConDisCon) error {
	if claims.Status != yivi.SessionStatusDone {
		return proofInvalid("verifier session ended with status %s", claims.Status)
	}
	if claims.ProofStatus != yivi.ProofStatusValid {
		return proofInvalid("proof rejected with status %s", claims.ProofStatus)
	}
	if !yivi.SatisfiesConDisCon(request, claims.Disclosed) {
		return proofInvalid("disclosed attributes do not satisfy the request")
	}
	return nil
}

// WithTimeout bounds every verifier call with the given deadline. Deadline
// expiry is treated as a rejection, never as a silent accept.
func WithTimeout(inner Verifier, timeout time.Duration) Verifier {
	return &timeoutVerifier{inner: inner, timeout: timeout}
}

type timeoutVerifier struct {
	inner   Verifier
	timeout time.Duration
}

func (t *timeoutVerifier) VerifyDisclosure(ctx context.Context, request yivi.ConDisCon, proof string) ([][]yivi.DisclosedAttribute, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	disclosed, err := t.inner.VerifyDisclosure(ctx, request, proof)
	return disclosed, mapDeadline(err)
}

func (t *timeoutVerifier) VerifySignature(ctx context.Context, message string, request yivi.ConDisCon, proof string) (*yivi.SignedMessage, [][]yivi.DisclosedAttribute, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	signature, disclosed, err := t.inner.VerifySignature(ctx, message, request, proof)
	return signature, disclosed, mapDeadline(err)
}

func mapDeadline(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeProofInvalid, "verifier deadline exceeded")
	}
	return err
}
