package googlefakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-google-auth-gateway/google"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
)

var _ google.IdentityVerifier = (*FakeVerifier)(nil)

// FakeVerifier maps raw ID tokens to identities. Unknown tokens fail with
// ErrInvalidToken.
type FakeVerifier struct {
	identities map[string]*google.Identity
	lock       sync.RWMutex
}

func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{
		identities: make(map[string]*google.Identity),
	}
}

func (f *FakeVerifier) Add(rawIDToken string, identity *google.Identity) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.identities[rawIDToken] = identity
}

func (f *FakeVerifier) Verify(_ context.Context, rawIDToken string) (*google.Identity, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	identity, ok := f.identities[rawIDToken]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", gwerrors.ErrInvalidToken)
	}
	if identity.Email == "" {
		return nil, &gwerrors.MissingFieldError{Field: "email", Source: "id token"}
	}
	copied := *identity
	return &copied, nil
}
