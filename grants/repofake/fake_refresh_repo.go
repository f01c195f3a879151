package fakegrantrepo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/jrsteele09/go-token-issuer/grants"
	"github.com/pkg/errors"
)

var _ grants.RefreshTokenRepo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*grants.RefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*grants.RefreshToken),
	}
}

func (r *FakeRefreshTokenRepo) Create(_ context.Context, token *grants.RefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens[token.Value] = token
	return nil
}

func (r *FakeRefreshTokenRepo) Get(_ context.Context, value string) (*grants.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	token, ok := r.tokens[value]
	if !ok {
		return nil, grants.ErrNotFound
	}
	return token, nil
}

// ConsumeOrRotate swaps the token value under one lock acquisition, so a
// concurrently redeemed value cannot rotate twice.
func (r *FakeRefreshTokenRepo) ConsumeOrRotate(_ context.Context, value string, rotate bool) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	token, ok := r.tokens[value]
	if !ok {
		return "", grants.ErrNotFound
	}
	if !rotate {
		return "", nil
	}

	tokenBytes := make([]byte, 32) // 256 bits
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "FakeRefreshTokenRepo.ConsumeOrRotate rand.Read")
	}
	newValue := hex.EncodeToString(tokenBytes)

	rotated := *token
	rotated.Value = newValue
	delete(r.tokens, value)
	r.tokens[newValue] = &rotated
	return newValue, nil
}

func (r *FakeRefreshTokenRepo) Delete(_ context.Context, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.tokens, value)
	return nil
}
