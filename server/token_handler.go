package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-token-issuer/oauth2"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Form fields handled structurally; everything else in the form body is
// passed through as a grant-specific parameter so extension grants see
// their raw inputs.
var structuralFormFields = map[string]struct{}{
	"grant_type":    {},
	"client_id":     {},
	"client_secret": {},
	"scope":         {},
}

// TokenHandler exchanges credentials/codes for tokens.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, err := decodeTokenRequest(r)
		if err != nil {
			writeResponse(w, oauth2.NewErrorResponse(
				oauth2.NewValidationFailure(oauth2.ErrorInvalidGrant, "malformed request body")))
			return
		}

		resp := s.service.Token(r.Context(), request)
		writeResponse(w, resp)
	}
}

func decodeTokenRequest(r *http.Request) (*oauth2.TokenRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	request := &oauth2.TokenRequest{
		GrantType:    oauth2.GrantType(r.PostFormValue("grant_type")),
		ClientID:     r.PostFormValue("client_id"),
		ClientSecret: r.PostFormValue("client_secret"),
		Scopes:       splitScopes(r.PostFormValue("scope")),
		Params:       map[string]string{},
	}

	// HTTP basic auth is an alternative client authentication transport.
	if id, secret, ok := r.BasicAuth(); ok {
		request.ClientID = id
		request.ClientSecret = secret
	}

	for field, values := range r.PostForm {
		if _, structural := structuralFormFields[field]; structural {
			continue
		}
		if len(values) > 0 {
			request.Params[field] = values[0]
		}
	}

	return request, nil
}

func splitScopes(scope string) []string {
	if scope == "" {
		return nil
	}
	return strings.Fields(scope)
}

func writeResponse(w http.ResponseWriter, resp *oauth2.Response) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusFor(resp))
	_ = json.NewEncoder(w).Encode(resp)
}

func statusFor(resp *oauth2.Response) int {
	switch resp.ErrorCode {
	case "":
		return http.StatusOK
	case oauth2.ErrorInvalidClient:
		return http.StatusUnauthorized
	case oauth2.ErrorInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
