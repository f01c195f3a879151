package fakeresourcerepo

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-token-issuer/resources"
)

var _ resources.Repo = (*FakeResourceRepo)(nil)

type FakeResourceRepo struct {
	resources map[string]*resources.Resource
	lock      sync.RWMutex
}

func NewFakeResourceRepo() resources.Repo {
	return &FakeResourceRepo{
		resources: make(map[string]*resources.Resource),
	}
}

func (r *FakeResourceRepo) Upsert(_ context.Context, resource *resources.Resource) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.resources[resource.Name] = resource
	return nil
}

func (r *FakeResourceRepo) Delete(_ context.Context, name string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.resources, name)
	return nil
}

func (r *FakeResourceRepo) Get(_ context.Context, name string) (*resources.Resource, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	resource, ok := r.resources[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return resource, nil
}

func (r *FakeResourceRepo) FindByScopes(_ context.Context, scopes []string) ([]*resources.Resource, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	found := make([]*resources.Resource, 0)
	for _, resource := range r.resources {
		for _, scope := range scopes {
			if resource.ExposesScope(scope) {
				found = append(found, resource)
				break
			}
		}
	}
	return found, nil
}
