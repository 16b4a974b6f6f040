package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/everpath/mastery-api/internal/api/middleware"
	"github.com/everpath/mastery-api/internal/api/shared"
	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/service/grading"
	"github.com/everpath/mastery-api/internal/service/mastery"
	"github.com/everpath/mastery-api/internal/store"
)

// ReviewRequest is the body for POST /reviews: the outcome of a review the
// client graded itself (or received from the grade endpoint).
type ReviewRequest struct {
	DomainID  string `json:"domain_id"  validate:"required"`
	ConceptID string `json:"concept_id" validate:"required"`
	Quality   int    `json:"quality"    validate:"gte=0,lte=5"`
}

// GradeRequest is the body for POST /grade. The assessment is submitted
// inline, exactly as the transform endpoint returned it. When Record is set
// the resulting quality is applied to the learner's schedule in the same
// call, which requires DomainID.
type GradeRequest struct {
	Assessment domain.Assessment `json:"assessment" validate:"required"`
	Response   string            `json:"response"   validate:"required"`
	Record     bool              `json:"record,omitempty"`
	DomainID   string            `json:"domain_id,omitempty" validate:"required_if=Record true"`
}

// GradeResponse pairs the grading result with the updated mastery record
// when the review was recorded.
type GradeResponse struct {
	Result  *grading.Result  `json:"result"`
	Mastery *MasteryResponse `json:"mastery,omitempty"`
}

// ReviewHandler serves review submission, grading, and the due queue.
type ReviewHandler struct {
	engine   *mastery.Engine
	grader   *grading.Grader
	learners store.LearnerStore
	logger   *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(engine *mastery.Engine, grader *grading.Grader, learners store.LearnerStore, logger *slog.Logger) *ReviewHandler {
	if engine == nil {
		panic("mastery engine cannot be nil")
	}
	if grader == nil {
		panic("grader cannot be nil")
	}
	if learners == nil {
		panic("learner store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewHandler{
		engine:   engine,
		grader:   grader,
		learners: learners,
		logger:   logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /reviews.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found")
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	updated, err := h.engine.RecordReview(r.Context(), learnerID, req.DomainID, req.ConceptID,
		req.Quality, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := masteryToResponse(updated)
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Grade handles POST /grade: it grades a learner response against an
// assessment and optionally records the resulting review in the same call.
func (h *ReviewHandler) Grade(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found")
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.grader.Grade(r.Context(), &req.Assessment, req.Response)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid assessment or response", err)
		return
	}

	response := GradeResponse{Result: result}
	if req.Record {
		updated, err := h.engine.RecordReview(r.Context(), learnerID, req.DomainID,
			req.Assessment.ConceptID, result.Quality, time.Now().UTC())
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		m := masteryToResponse(updated)
		response.Mastery = &m
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// DueReviews handles GET /reviews/due. The optional domain_id query parameter
// narrows the queue to one domain.
func (h *ReviewHandler) DueReviews(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found")
		return
	}

	domainID := r.URL.Query().Get("domain_id")
	due, err := h.engine.DueConcepts(r.Context(), learnerID, domainID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list due reviews", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, masteriesToResponses(due))
}

// GetMastery handles GET /mastery/{domainID}/{conceptID}. A concept the
// learner has never reviewed returns a fresh default record rather than 404,
// matching what the transform pipeline sees.
func (h *ReviewHandler) GetMastery(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found")
		return
	}

	domainID := pathParam(r, "domainID")
	conceptID := pathParam(r, "conceptID")
	if domainID == "" || conceptID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Domain and concept IDs are required")
		return
	}

	m, err := h.engine.GetMastery(r.Context(), learnerID, domainID, conceptID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, masteryToResponse(m))
}

// DomainProfile is one domain's slice of a learner profile.
type DomainProfile struct {
	DomainID       string            `json:"domain_id"`
	AverageMastery float64           `json:"average_mastery"`
	Concepts       []MasteryResponse `json:"concepts"`
}

// ProfileResponse is the body for GET /profile.
type ProfileResponse struct {
	LearnerID string          `json:"learner_id"`
	Name      string          `json:"name"`
	Domains   []DomainProfile `json:"domains"`
}

// GetProfile handles GET /profile.
func (h *ReviewHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found")
		return
	}

	learner, err := h.learners.GetByID(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	profile, err := h.engine.LoadProfile(r.Context(), learner)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to load profile", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}
