package googlefakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-google-auth-gateway/google"
)

var _ google.Exchanger = (*FakeExchanger)(nil)

type ExchangeCall struct {
	Code        string
	RedirectURI string
}

// FakeExchanger returns canned tokens (or an error) and records every call.
type FakeExchanger struct {
	Tokens *google.Tokens
	Err    error

	calls []ExchangeCall
	lock  sync.Mutex
}

func NewFakeExchanger(tokens *google.Tokens) *FakeExchanger {
	return &FakeExchanger{Tokens: tokens}
}

func (f *FakeExchanger) Exchange(_ context.Context, code, redirectURI string) (*google.Tokens, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = append(f.calls, ExchangeCall{Code: code, RedirectURI: redirectURI})
	if f.Err != nil {
		return nil, f.Err
	}
	tokens := *f.Tokens
	return &tokens, nil
}

func (f *FakeExchanger) Calls() []ExchangeCall {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]ExchangeCall(nil), f.calls...)
}
