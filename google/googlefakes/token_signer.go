package googlefakes

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenSigner mints RS256 ID tokens the way Google does, for tests that run
// the real go-oidc verification path.
type TokenSigner struct {
	KeyID string
	key   *rsa.PrivateKey
}

func NewTokenSigner() (*TokenSigner, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return &TokenSigner{KeyID: uuid.New().String(), key: key}, nil
}

// Claims returns a valid claim set for the given issuer and audience.
func (s *TokenSigner) Claims(issuer, audience, email string, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":            issuer,
		"aud":            audience,
		"sub":            "1234567890",
		"email":          email,
		"email_verified": true,
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func (s *TokenSigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.KeyID
	return token.SignedString(s.key)
}

// KeySet returns a static key set holding the signer's public key.
func (s *TokenSigner) KeySet() oidc.KeySet {
	return &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&s.key.PublicKey}}
}

// JWKS renders the public key as a JSON Web Key Set document.
func (s *TokenSigner) JWKS() []byte {
	pub := s.key.PublicKey
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": s.KeyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	b, _ := json.Marshal(doc)
	return b
}
