package resources

// Resource is an API resource definition: the scopes it exposes and the
// claim types tokens scoped to it should carry. Looked up, never mutated by
// the token pipeline.
type Resource struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Scopes      []string `json:"scopes"`
	ClaimTypes  []string `json:"claimTypes"`
}

// ExposesScope checks whether the resource exposes the given scope.
func (r *Resource) ExposesScope(scope string) bool {
	for _, s := range r.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
