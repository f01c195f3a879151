package users

import (
	"context"

	"github.com/pkg/errors"
)

// CredentialValidator verifies resource-owner credentials for the password
// grant. Implementations return the subject identifier on success and
// ok=false on any credential failure; they never distinguish an unknown
// username from a wrong password. A non-nil error means the backing store
// itself failed, not that the credentials were bad.
type CredentialValidator interface {
	Validate(ctx context.Context, username, password string) (subject string, ok bool, err error)
}

// RepoCredentialValidator validates credentials against a UserRepo using
// the stored bcrypt hash.
type RepoCredentialValidator struct {
	repo UserRepo
}

var _ CredentialValidator = (*RepoCredentialValidator)(nil)

func NewRepoCredentialValidator(repo UserRepo) *RepoCredentialValidator {
	return &RepoCredentialValidator{repo: repo}
}

func (v *RepoCredentialValidator) Validate(ctx context.Context, username, password string) (string, bool, error) {
	user, err := v.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		// Unknown user reads the same as a wrong password to the caller.
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "[RepoCredentialValidator.Validate] repo.GetByUsername")
	}
	if user.Blocked {
		return "", false, nil
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return "", false, nil
	}
	return user.ID, true, nil
}
