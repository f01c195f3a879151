package fakeprofile

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-token-issuer/claims"
)

var _ claims.ProfileService = (*FakeProfileService)(nil)

// FakeProfileService serves claims from an in-memory subject -> type -> value
// map.
type FakeProfileService struct {
	subjects map[string]map[string]string
	lock     sync.RWMutex
}

func NewFakeProfileService() *FakeProfileService {
	return &FakeProfileService{
		subjects: make(map[string]map[string]string),
	}
}

// SetClaim records a claim value for a subject.
func (f *FakeProfileService) SetClaim(subject, claimType, value string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.subjects[subject] == nil {
		f.subjects[subject] = make(map[string]string)
	}
	f.subjects[subject][claimType] = value
}

func (f *FakeProfileService) GetClaims(_ context.Context, subject string, claimTypes []string) (claims.ClaimsSet, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	set := claims.ClaimsSet{}
	known := f.subjects[subject]
	for _, claimType := range claimTypes {
		if value, ok := known[claimType]; ok {
			set.Add(claimType, value)
		}
	}
	return set, nil
}
