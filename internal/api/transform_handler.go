package api

import (
	"log/slog"
	"net/http"

	"github.com/everpath/mastery-api/internal/api/middleware"
	"github.com/everpath/mastery-api/internal/api/shared"
	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/service/transform"
)

// TransformRequest is the body for POST /transform.
type TransformRequest struct {
	DomainID string `json:"domain_id" validate:"required"`
	Content  string `json:"content"   validate:"required"`

	// IncludeAssessments defaults to true when omitted.
	IncludeAssessments *bool `json:"include_assessments,omitempty"`

	MaxConcepts   int    `json:"max_concepts,omitempty"   validate:"gte=0"`
	ScaffoldLevel string `json:"scaffold_level,omitempty" validate:"omitempty,oneof=none light moderate heavy"`
}

// TransformHandler serves content transformation requests.
type TransformHandler struct {
	transformer *transform.Transformer
	logger      *slog.Logger
}

// NewTransformHandler creates a TransformHandler.
func NewTransformHandler(transformer *transform.Transformer, logger *slog.Logger) *TransformHandler {
	if transformer == nil {
		panic("transformer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TransformHandler{
		transformer: transformer,
		logger:      logger.With(slog.String("component", "transform_handler")),
	}
}

// Transform handles POST /transform: it adapts the submitted content to the
// authenticated learner's mastery and returns the annotated content with its
// assessments.
func (h *TransformHandler) Transform(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found")
		return
	}

	var req TransformRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	cfg := domain.DefaultTransformConfig()
	if req.IncludeAssessments != nil {
		cfg.IncludeAssessments = *req.IncludeAssessments
	}
	cfg.MaxConcepts = req.MaxConcepts
	cfg.ScaffoldLevelOverride = domain.ScaffoldLevel(req.ScaffoldLevel)

	result, err := h.transformer.Transform(r.Context(), learnerID, req.DomainID, req.Content, cfg)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
