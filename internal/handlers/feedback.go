package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"axiom-backend/internal/analysis"
	"axiom-backend/internal/models"
	"axiom-backend/internal/notify"
	"axiom-backend/internal/repository"
	"axiom-backend/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

const (
	nextActionMinLen = 10
	nextActionMaxLen = 500

	defaultListLimit = 50
	defaultPageSize  = 20
)

// FeedbackStore is the persistence surface the handlers need. Implemented by
// repository.FeedbackRepo.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error)
	List(ctx context.Context, filter repository.ListFilter) ([]models.Feedback, int64, error)
	UpdateNextAction(ctx context.Context, id bson.ObjectID, nextAction string) (*models.Feedback, error)
	DeleteByID(ctx context.Context, id bson.ObjectID) (int64, error)
	DeleteManyByIDs(ctx context.Context, ids []bson.ObjectID) (int64, error)
}

type FeedbackHandler struct {
	store      FeedbackStore
	classifier analysis.Classifier
	notifier   notify.Notifier
}

func NewFeedbackHandler(store FeedbackStore, classifier analysis.Classifier, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		store:      store,
		classifier: classifier,
		notifier:   notifier,
	}
}

type createFeedbackRequest struct {
	Text  string `json:"text"`
	Email string `json:"email"`
	CatID string `json:"catId"`
}

// --- POST /feedback ---

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	var req createFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, "Invalid request body", nil)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		validationError(w, "Text is required", map[string]string{"text": "Text is required"})
		return
	}

	var catID *bson.ObjectID
	if req.CatID != "" {
		if !objectIDPattern.MatchString(req.CatID) {
			validationError(w, "Invalid cat ID format", map[string]string{"catId": "Invalid cat ID format"})
			return
		}
		id, err := bson.ObjectIDFromHex(req.CatID)
		if err != nil {
			validationError(w, "Invalid cat ID format", map[string]string{"catId": "Invalid cat ID format"})
			return
		}
		catID = &id
	}

	// Classification happens synchronously before insert; a feedback is
	// never persisted without a complete analysis.
	result, err := h.classifier.Classify(r.Context(), req.Text)
	if err != nil {
		lg.Error().Err(err).Msg("analysis failed")
		databaseError(w, "Failed to create feedback")
		return
	}

	feedback := &models.Feedback{
		Text:     req.Text,
		Email:    req.Email,
		Analysis: *result,
		CatID:    catID,
	}

	if err := h.store.Create(r.Context(), feedback); err != nil {
		lg.Error().Err(err).Msg("insert failed")
		databaseError(w, "Failed to create feedback")
		return
	}

	// Urgent feedback pings staff in the background; failures only get logged.
	if feedback.Analysis.Priority == models.PriorityP0 {
		go func(id, summary string) {
			message := fmt.Sprintf("P0 feedback %s: %s", id, summary)
			if err := h.notifier.Publish(context.Background(), message); err != nil {
				lg.Error().Err(err).Msg("failed to publish alert")
			}
		}(feedback.ID.Hex(), feedback.Analysis.Summary)
	}

	writeData(w, http.StatusCreated, feedback)
}

// --- GET /feedback ---

type offsetPagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Skip    int   `json:"skip"`
	HasMore bool  `json:"hasMore"`
}

type pagePagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())
	q := r.URL.Query()

	filter := repository.ListFilter{
		Sentiment: q.Get("sentiment"),
		Priority:  q.Get("priority"),
		Tag:       q.Get("tag"),
		Search:    q.Get("search"),
	}

	// page/pageSize take precedence over raw limit/skip when present.
	pageBased := q.Get("page") != "" || q.Get("pageSize") != ""
	var page, pageSize int
	if pageBased {
		page = utils.AtoiDefault(q.Get("page"), 1)
		if page < 1 {
			page = 1
		}
		pageSize = utils.AtoiDefault(q.Get("pageSize"), defaultPageSize)
		if pageSize < 1 {
			pageSize = defaultPageSize
		}
		filter.Limit = pageSize
		filter.Skip = (page - 1) * pageSize
	} else {
		filter.Limit = utils.AtoiDefault(q.Get("limit"), defaultListLimit)
		filter.Skip = utils.AtoiDefault(q.Get("skip"), 0)
	}

	items, total, err := h.store.List(r.Context(), filter)
	if err != nil {
		lg.Error().Err(err).Msg("list failed")
		databaseError(w, "Failed to fetch feedback")
		return
	}

	var pagination interface{}
	if pageBased {
		pagination = pagePagination{Total: total, Page: page, PageSize: pageSize}
	} else {
		pagination = offsetPagination{
			Total:   total,
			Limit:   filter.Limit,
			Skip:    filter.Skip,
			HasMore: int64(filter.Skip+len(items)) < total,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       items,
		"pagination": pagination,
	})
}

// --- GET /feedback/{id} ---

func (h *FeedbackHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	id, ok := parseFeedbackID(w, r)
	if !ok {
		return
	}

	feedback, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		lg.Error().Err(err).Msg("find failed")
		databaseError(w, "Failed to fetch feedback")
		return
	}
	if feedback == nil {
		notFound(w, "Feedback not found")
		return
	}

	writeData(w, http.StatusOK, feedback)
}

// --- PATCH /feedback/{id} ---

type updateNextActionRequest struct {
	NextAction json.RawMessage `json:"nextAction"`
}

func (h *FeedbackHandler) UpdateNextAction(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	id, ok := parseFeedbackID(w, r)
	if !ok {
		return
	}

	var req updateNextActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, "Invalid request body", nil)
		return
	}

	// json.Unmarshal treats a JSON null as a no-op on a string target, so it
	// has to be rejected explicitly.
	var nextAction string
	if len(req.NextAction) == 0 || string(req.NextAction) == "null" || json.Unmarshal(req.NextAction, &nextAction) != nil {
		validationError(w, "nextAction is required and must be a string", nil)
		return
	}

	nextAction = strings.TrimSpace(nextAction)
	if utf8.RuneCountInString(nextAction) < nextActionMinLen {
		validationError(w, "nextAction must be at least 10 characters", nil)
		return
	}
	if utf8.RuneCountInString(nextAction) > nextActionMaxLen {
		validationError(w, "nextAction must not exceed 500 characters", nil)
		return
	}

	updated, err := h.store.UpdateNextAction(r.Context(), id, nextAction)
	if err != nil {
		lg.Error().Err(err).Msg("update failed")
		databaseError(w, "Failed to update feedback")
		return
	}
	if updated == nil {
		notFound(w, "Feedback not found")
		return
	}

	writeData(w, http.StatusOK, updated)
}

// --- DELETE /feedback/{id} ---

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	id, ok := parseFeedbackID(w, r)
	if !ok {
		return
	}

	count, err := h.store.DeleteByID(r.Context(), id)
	if err != nil {
		lg.Error().Err(err).Msg("delete failed")
		databaseError(w, "Failed to delete feedback")
		return
	}
	if count == 0 {
		notFound(w, "Feedback not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"deletedId": id.Hex(),
	})
}

// --- DELETE /feedback ---

type bulkDeleteRequest struct {
	IDs json.RawMessage `json:"ids"`
}

func (h *FeedbackHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, "ids must be an array", nil)
		return
	}

	var rawIDs []string
	if len(req.IDs) == 0 || string(req.IDs) == "null" || json.Unmarshal(req.IDs, &rawIDs) != nil {
		validationError(w, "ids must be an array", nil)
		return
	}
	if len(rawIDs) == 0 {
		validationError(w, "ids array cannot be empty", nil)
		return
	}

	ids := make([]bson.ObjectID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if !objectIDPattern.MatchString(raw) {
			validationError(w, "All ids must be valid MongoDB ObjectId strings", nil)
			return
		}
		id, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			validationError(w, "All ids must be valid MongoDB ObjectId strings", nil)
			return
		}
		ids = append(ids, id)
	}

	count, err := h.store.DeleteManyByIDs(r.Context(), ids)
	if err != nil {
		lg.Error().Err(err).Msg("bulk delete failed")
		databaseError(w, "Failed to delete feedback")
		return
	}

	// Ids that never existed just lower the count; partial deletion is still
	// a 200.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"deletedCount": count,
		"deletedIds":   rawIDs,
	})
}

// parseFeedbackID validates the path id before anything touches the store.
// It writes the 400 itself and reports ok=false on failure.
func parseFeedbackID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	if !objectIDPattern.MatchString(raw) {
		validationError(w, "Invalid feedback ID format", nil)
		return bson.ObjectID{}, false
	}
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		validationError(w, "Invalid feedback ID format", nil)
		return bson.ObjectID{}, false
	}
	return id, true
}
