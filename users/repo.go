package users

import (
	"context"
	"errors"
)

// ErrNotFound is returned by user stores for unknown ids and usernames.
// Credential validation maps it to a failed check; any other store error is
// infrastructure.
var ErrNotFound = errors.New("not found")

type UserRepo interface {
	Upsert(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
