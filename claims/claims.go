package claims

import "sort"

// Standard claim types the assembler emits on every token.
const (
	TypeIssuer   = "iss"
	TypeSubject  = "sub"
	TypeClientID = "client_id"
	TypeAMR      = "amr"
	TypeScope    = "scope"
	TypeNonce    = "nonce"
)

// Claim is one typed piece of information about a subject or client.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ClaimsSet is an ordered sequence of claims, built fresh per request.
type ClaimsSet []Claim

// Add appends a claim. Empty values are dropped: unauthorized or unknown
// claims are omitted, never emitted as null or empty.
func (s *ClaimsSet) Add(claimType, value string) {
	if value == "" {
		return
	}
	*s = append(*s, Claim{Type: claimType, Value: value})
}

// Values returns every value recorded for a claim type, in insertion order.
func (s ClaimsSet) Values(claimType string) []string {
	var values []string
	for _, c := range s {
		if c.Type == claimType {
			values = append(values, c.Value)
		}
	}
	return values
}

// First returns the first value for a claim type, or "".
func (s ClaimsSet) First(claimType string) string {
	for _, c := range s {
		if c.Type == claimType {
			return c.Value
		}
	}
	return ""
}

// Sort orders the set by claim type, keeping insertion order within a type,
// so serialized tokens are reproducible for identical inputs.
func (s ClaimsSet) Sort() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Type < s[j].Type })
}
