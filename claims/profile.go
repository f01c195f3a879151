package claims

import "context"

// ProfileService supplies identity claim values for a subject. Only the
// requested claim types may be returned; the assembler drops anything else.
type ProfileService interface {
	GetClaims(ctx context.Context, subject string, claimTypes []string) (ClaimsSet, error)
}
