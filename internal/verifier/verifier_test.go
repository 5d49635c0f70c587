package verifier

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

const testSecret = "test_secret_key"

type JWTVerifierSuite struct {
	suite.Suite
	verifier *JWTVerifier
	request  yivi.ConDisCon
}

func (s *JWTVerifierSuite) SetupTest() {
	s.verifier = NewJWTVerifier(testSecret)
	var err error
	s.request, err = yivi.Build([]yivi.Attribute{"ns.a", "ns.b", "other.c"})
	s.Require().NoError(err)
}

func TestJWTVerifierSuite(t *testing.T) {
	suite.Run(t, new(JWTVerifierSuite))
}

func signResult(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func disclosedSets(ids ...yivi.Attribute) [][]yivi.DisclosedAttribute {
	set := make([]yivi.DisclosedAttribute, len(ids))
	for i, id := range ids {
		set[i] = yivi.DisclosedAttribute{
			ID:       id,
			Status:   "PRESENT",
			RawValue: "value",
			Value:    yivi.TranslatedString{"en": "value", "nl": "waarde"},
		}
	}
	return [][]yivi.DisclosedAttribute{set}
}

func (s *JWTVerifierSuite) validDisclosureResult() disclosureResultClaims {
	return disclosureResultClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "disclosing_result",
			Issuer:   "irmaserver",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Type:        "disclosing",
		Status:      yivi.SessionStatusDone,
		Token:       "sessiontoken",
		ProofStatus: yivi.ProofStatusValid,
		Disclosed:   disclosedSets("ns.a", "ns.b", "other.c"),
	}
}

func (s *JWTVerifierSuite) TestVerifyDisclosureAccepts() {
	proof := signResult(s.T(), testSecret, s.validDisclosureResult())

	disclosed, err := s.verifier.VerifyDisclosure(context.Background(), s.request, proof)
	s.Require().NoError(err)
	s.Require().Len(disclosed, 1)
	s.Len(disclosed[0], 3)
}

func (s *JWTVerifierSuite) TestVerifyDisclosureRejects() {
	s.Run("wrong signing key", func() {
		proof := signResult(s.T(), "other_key", s.validDisclosureResult())
		_, err := s.verifier.VerifyDisclosure(context.Background(), s.request, proof)
		s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
	})

	s.Run("garbage proof", func() {
		_, err := s.verifier.VerifyDisclosure(context.Background(), s.request, "not-a-jwt")
		s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
	})

	s.Run("session not done", func() {
		claims := s.validDisclosureResult()
		claims.Status = yivi.SessionStatusTimeout
		proof := signResult(s.T(), testSecret, claims)
		_, err := s.verifier.VerifyDisclosure(context.Background(), s.request, proof)
		s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
	})

	s.Run("proof status invalid", func() {
		claims := s.validDisclosureResult()
		claims.ProofStatus = yivi.ProofStatusMissingAttrs
		proof := signResult(s.T(), testSecret, claims)
		_, err := s.verifier.VerifyDisclosure(context.Background(), s.request, proof)
		s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
	})

	s.Run("disclosed set does not cover request", func() {
		claims := s.validDisclosureResult()
		claims.Disclosed = disclosedSets("ns.a", "other.c")
		proof := signResult(s.T(), testSecret, claims)
		_, err := s.verifier.VerifyDisclosure(context.Background(), s.request, proof)
		s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
	})

	s.Run("signature result subject", func() {
		claims := s.validDisclosureResult()
		claims.Subject = "signing_result"
		claims.Type = "signing"
		proof := signResult(s.T(), testSecret, claims)
		_, err := s.verifier.VerifyDisclosure(context.Background(), s.request, proof)
		s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
	})
}

func (s *JWTVerifierSuite) validSignatureResult(message string) signatureResultClaims {
	inner := s.validDisclosureResult()
	inner.Subject = "signing_result"
	inner.Type = "signing"
	return signatureResultClaims{
		disclosureResultClaims: inner,
		Signature: &yivi.SignedMessage{
			Message:   message,
			Timestamp: time.Now().Unix(),
		},
	}
}

func (s *JWTVerifierSuite) TestVerifySignatureBindsMessage() {
	proof := signResult(s.T(), testSecret, s.validSignatureResult("I agree"))

	signature, disclosed, err := s.verifier.VerifySignature(context.Background(), "I agree", s.request, proof)
	s.Require().NoError(err)
	s.Equal("I agree", signature.Message)
	s.Len(disclosed, 1)

	_, _, err = s.verifier.VerifySignature(context.Background(), "I disagree", s.request, proof)
	s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid), "substituted message must be rejected")
}

func (s *JWTVerifierSuite) TestVerifySignatureRequiresSignature() {
	claims := s.validSignatureResult("I agree")
	claims.Signature = nil
	proof := signResult(s.T(), testSecret, claims)

	_, _, err := s.verifier.VerifySignature(context.Background(), "I agree", s.request, proof)
	s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
}

func TestWithTimeoutRejectsOnDeadline(t *testing.T) {
	slow := slowVerifier{delay: 50 * time.Millisecond}
	bounded := WithTimeout(slow, time.Millisecond)

	_, err := bounded.VerifyDisclosure(context.Background(), nil, "proof")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeProofInvalid), "timeout must surface as proof_invalid")
}

// slowVerifier simulates a verifier that outlives the configured deadline.
type slowVerifier struct {
	delay time.Duration
}

func (v slowVerifier) VerifyDisclosure(ctx context.Context, _ yivi.ConDisCon, _ string) ([][]yivi.DisclosedAttribute, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(v.delay):
		return nil, nil
	}
}

func (v slowVerifier) VerifySignature(ctx context.Context, _ string, _ yivi.ConDisCon, _ string) (*yivi.SignedMessage, [][]yivi.DisclosedAttribute, error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-time.After(v.delay):
		return nil, nil, nil
	}
}
