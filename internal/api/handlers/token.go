package handlers

import (
	"net/http"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/service/brokerage"
)

// TokenHandler issues access tokens through the resolved backend.
type TokenHandler struct {
	resolver *brokerage.Resolver
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(resolver *brokerage.Resolver) *TokenHandler {
	return &TokenHandler{resolver: resolver}
}

// IssueToken returns a valid access token, reusing the cached one when
// it is still inside its expiry margin.
// POST /api/kis/token
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	_, b, err := h.resolver.Resolve()
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	token, err := b.Token(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, r, token)
}
