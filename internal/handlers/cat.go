package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"axiom-backend/internal/genome"
	"axiom-backend/internal/models"
	"axiom-backend/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CatStore is the persistence surface for cat specimens. Implemented by
// repository.CatRepo.
type CatStore interface {
	Create(ctx context.Context, cat *models.Cat) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Cat, error)
	List(ctx context.Context, limit, skip int) ([]models.Cat, error)
}

type CatHandler struct {
	store CatStore
}

func NewCatHandler(store CatStore) *CatHandler {
	return &CatHandler{store: store}
}

// --- GET /cats ---

func (h *CatHandler) List(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())
	q := r.URL.Query()

	limit := utils.AtoiDefault(q.Get("limit"), defaultListLimit)
	skip := utils.AtoiDefault(q.Get("skip"), 0)

	cats, err := h.store.List(r.Context(), limit, skip)
	if err != nil {
		lg.Error().Err(err).Msg("list cats failed")
		databaseError(w, "Failed to fetch cats")
		return
	}

	writeData(w, http.StatusOK, cats)
}

// --- GET /cats/{id} ---

func (h *CatHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	raw := chi.URLParam(r, "id")
	if !objectIDPattern.MatchString(raw) {
		validationError(w, "Invalid cat ID format", nil)
		return
	}
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		validationError(w, "Invalid cat ID format", nil)
		return
	}

	cat, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		lg.Error().Err(err).Msg("find cat failed")
		databaseError(w, "Failed to fetch cat")
		return
	}
	if cat == nil {
		notFound(w, "Cat not found")
		return
	}

	writeData(w, http.StatusOK, cat)
}

// --- POST /cats ---

type createCatRequest struct {
	Genome string `json:"genome"`
}

// Create engineers a new specimen. A genome may be supplied; otherwise one is
// generated. Traits and name derive deterministically from the genome.
func (h *CatHandler) Create(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	var req createCatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, "Invalid request body", nil)
		return
	}

	g := req.Genome
	if g == "" {
		g = genome.NewRandom()
	} else if err := genome.Validate(g); err != nil {
		validationError(w, "Genome must be a 32-character hex string", map[string]string{"genome": err.Error()})
		return
	}

	traits, err := genome.Derive(g)
	if err != nil {
		validationError(w, "Genome must be a 32-character hex string", nil)
		return
	}
	name, err := genome.DeriveName(g)
	if err != nil {
		validationError(w, "Genome must be a 32-character hex string", nil)
		return
	}

	cat := &models.Cat{
		Name:   name,
		Genome: g,
		Traits: models.CatTraits{
			Size:          traits.Size,
			Fluffiness:    traits.Fluffiness,
			GlowIntensity: traits.GlowIntensity,
			WhiskerLength: traits.WhiskerLength,
			Temperament:   traits.Temperament,
			CoatPattern:   traits.CoatPattern,
		},
	}

	if err := h.store.Create(r.Context(), cat); err != nil {
		lg.Error().Err(err).Msg("insert cat failed")
		databaseError(w, "Failed to create cat")
		return
	}

	writeData(w, http.StatusCreated, cat)
}
