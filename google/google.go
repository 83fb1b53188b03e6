// Package google talks to Google's OAuth2 and OpenID Connect endpoints: it
// exchanges authorization codes for tokens and verifies ID tokens.
package google

import "github.com/coreos/go-oidc/v3/oidc"

// Issuer is Google's OpenID Connect issuer. go-oidc also accepts the
// schemeless "accounts.google.com" that Google puts in some tokens.
const Issuer = "https://accounts.google.com"

// DefaultScopes are the scopes the front end is expected to request.
var DefaultScopes = []string{oidc.ScopeOpenID, "profile", "email"}
