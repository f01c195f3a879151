package resources

import "context"

type Repo interface {
	Upsert(ctx context.Context, resource *Resource) error
	Delete(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (*Resource, error)
	// FindByScopes returns the resources exposing any of the given scopes.
	FindByScopes(ctx context.Context, scopes []string) ([]*Resource, error)
}
