package api

import (
	"log/slog"
	"net/http"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/api/shared"
)

// DomainHandler exposes the registered knowledge domains.
type DomainHandler struct {
	registry *adapter.Registry
	logger   *slog.Logger
}

// NewDomainHandler creates a DomainHandler.
func NewDomainHandler(registry *adapter.Registry, logger *slog.Logger) *DomainHandler {
	if registry == nil {
		panic("adapter registry cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &DomainHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "domain_handler")),
	}
}

// ListDomains handles GET /domains: the registered adapters and the Bloom
// levels each can assess.
func (h *DomainHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	configs := h.registry.List()
	shared.RespondWithJSON(w, r, http.StatusOK, configs)
}
