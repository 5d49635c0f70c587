package verifier

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

// LDContextDisclosure identifies the disclosure request format understood by
// the verifier.
const LDContextDisclosure = "https://irma.app/ld/request/disclosure/v2"

// LDContextSignature identifies the attribute-based signature request format.
const LDContextSignature = "https://irma.app/ld/request/signature/v2"

// DisclosureRequest asks the verifier to run a disclosure session over the
// given ConDisCon.
type DisclosureRequest struct {
	LDContext       string                            `json:"@context"`
	Disclose        yivi.ConDisCon                    `json:"disclose"`
	Labels          map[string]yivi.TranslatedString  `json:"labels,omitempty"`
	ClientReturnURL string                            `json:"clientReturnUrl,omitempty"`
}

// SignatureRequest asks the verifier to run a signature session: the message
// is signed with the credentials that satisfy the ConDisCon.
type SignatureRequest struct {
	LDContext string         `json:"@context"`
	Message   string         `json:"message"`
	Disclose  yivi.ConDisCon `json:"disclose,omitempty"`
}

// ExtendedDisclosureRequest wraps a DisclosureRequest with session options.
type ExtendedDisclosureRequest struct {
	Validity int               `json:"validity,omitempty"`
	Timeout  int               `json:"timeout,omitempty"`
	Request  DisclosureRequest `json:"request"`
}

// ExtendedSignatureRequest wraps a SignatureRequest with session options.
type ExtendedSignatureRequest struct {
	Validity int              `json:"validity,omitempty"`
	Timeout  int              `json:"timeout,omitempty"`
	Request  SignatureRequest `json:"request"`
}

type disclosureRequestClaims struct {
	jwt.RegisteredClaims
	SPRequest ExtendedDisclosureRequest `json:"sprequest"`
}

type signatureRequestClaims struct {
	jwt.RegisteredClaims
	ABSRequest ExtendedSignatureRequest `json:"absrequest"`
}

// RequestSigner produces the signed session request JWTs the verifier accepts.
// The issuer id tells the verifier which key to check the JWT with.
type RequestSigner struct {
	secret   []byte
	issuerID string
	validity time.Duration
}

// NewRequestSigner builds a signer for session request JWTs. Validity bounds
// how long the verifier's session result JWT stays usable.
func NewRequestSigner(secret, issuerID string, validity time.Duration) *RequestSigner {
	return &RequestSigner{secret: []byte(secret), issuerID: issuerID, validity: validity}
}

// SignDisclosureRequest returns a signed verification request JWT for the
// given ConDisCon.
func (s *RequestSigner) SignDisclosureRequest(condiscon yivi.ConDisCon) (string, error) {
	claims := disclosureRequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "verification_request",
			Issuer:   s.issuerID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		SPRequest: ExtendedDisclosureRequest{
			Validity: int(s.validity.Seconds()),
			Request: DisclosureRequest{
				LDContext: LDContextDisclosure,
				Disclose:  condiscon,
			},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign disclosure request")
	}
	return signed, nil
}

// SignSignatureRequest returns a signed signature request JWT binding the
// message to the required ConDisCon.
func (s *RequestSigner) SignSignatureRequest(message string, condiscon yivi.ConDisCon) (string, error) {
	claims := signatureRequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "signature_request",
			Issuer:   s.issuerID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		ABSRequest: ExtendedSignatureRequest{
			Validity: int(s.validity.Seconds()),
			Request: SignatureRequest{
				LDContext: LDContextSignature,
				Message:   message,
				Disclose:  condiscon,
			},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign signature request")
	}
	return signed, nil
}
