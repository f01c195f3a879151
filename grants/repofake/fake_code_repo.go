package fakegrantrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-token-issuer/grants"
)

var _ grants.AuthorizationCodeRepo = (*FakeAuthorizationCodeRepo)(nil)

// FakeAuthorizationCodeRepo is an in-memory code store. Consume holds the
// write lock across check-and-delete, so concurrent redemptions of the same
// code see exactly one true.
type FakeAuthorizationCodeRepo struct {
	codes map[string]*grants.AuthorizationCode
	lock  sync.RWMutex
}

func NewFakeAuthorizationCodeRepo() *FakeAuthorizationCodeRepo {
	return &FakeAuthorizationCodeRepo{
		codes: make(map[string]*grants.AuthorizationCode),
	}
}

func (r *FakeAuthorizationCodeRepo) Upsert(_ context.Context, code *grants.AuthorizationCode) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.codes[code.Code] = code
	return nil
}

func (r *FakeAuthorizationCodeRepo) Get(_ context.Context, code string) (*grants.AuthorizationCode, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	stored, ok := r.codes[code]
	if !ok {
		return nil, grants.ErrNotFound
	}
	return stored, nil
}

func (r *FakeAuthorizationCodeRepo) Consume(_ context.Context, code string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.codes[code]; !ok {
		return false, nil
	}
	delete(r.codes, code)
	return true, nil
}
