package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"axiom-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeCatStore struct {
	calls []string

	created    *models.Cat
	createErr  error
	findResult *models.Cat
	listResult []models.Cat
}

func (s *fakeCatStore) Create(ctx context.Context, cat *models.Cat) error {
	s.calls = append(s.calls, "create")
	if s.createErr != nil {
		return s.createErr
	}
	cat.ID = bson.NewObjectID()
	cat.CreatedAt = time.Now()
	s.created = cat
	return nil
}

func (s *fakeCatStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Cat, error) {
	s.calls = append(s.calls, "find")
	return s.findResult, nil
}

func (s *fakeCatStore) List(ctx context.Context, limit, skip int) ([]models.Cat, error) {
	s.calls = append(s.calls, "list")
	return s.listResult, nil
}

func newCatRouter(store *fakeCatStore) *chi.Mux {
	h := NewCatHandler(store)
	r := chi.NewRouter()
	r.Route("/cats", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
	})
	return r
}

func TestGetCat_InvalidID(t *testing.T) {
	store := &fakeCatStore{}
	router := newCatRouter(store)

	w := doRequest(t, router, http.MethodGet, "/cats/whiskers", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, message := errorMessage(t, w)
	assert.Equal(t, CodeValidationError, code)
	assert.Equal(t, "Invalid cat ID format", message)
	assert.Empty(t, store.calls)
}

func TestGetCat_NotFound(t *testing.T) {
	store := &fakeCatStore{}
	router := newCatRouter(store)

	w := doRequest(t, router, http.MethodGet, "/cats/"+bson.NewObjectID().Hex(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	code, message := errorMessage(t, w)
	assert.Equal(t, CodeNotFound, code)
	assert.Equal(t, "Cat not found", message)
}

func TestCreateCat_WithGenome(t *testing.T) {
	store := &fakeCatStore{}
	router := newCatRouter(store)

	w := doRequest(t, router, http.MethodPost, "/cats",
		`{"genome":"a1b2c3d4e5f60718293a4b5c6d7e8f90"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, store.created)
	assert.Equal(t, "a1b2c3d4e5f60718293a4b5c6d7e8f90", store.created.Genome)
	assert.NotEmpty(t, store.created.Name)
	assert.NotEmpty(t, store.created.Traits.Temperament)

	// Same genome, same specimen.
	again := &fakeCatStore{}
	w = doRequest(t, newCatRouter(again), http.MethodPost, "/cats",
		`{"genome":"a1b2c3d4e5f60718293a4b5c6d7e8f90"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, store.created.Name, again.created.Name)
	assert.Equal(t, store.created.Traits, again.created.Traits)
}

func TestCreateCat_RandomGenome(t *testing.T) {
	store := &fakeCatStore{}
	router := newCatRouter(store)

	w := doRequest(t, router, http.MethodPost, "/cats", `{}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)
	assert.Len(t, store.created.Genome, 32)
}

func TestCreateCat_InvalidGenome(t *testing.T) {
	store := &fakeCatStore{}
	router := newCatRouter(store)

	w := doRequest(t, router, http.MethodPost, "/cats", `{"genome":"tooshort"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, _ := errorMessage(t, w)
	assert.Equal(t, CodeValidationError, code)
	assert.Empty(t, store.calls)
}

func TestListCats(t *testing.T) {
	store := &fakeCatStore{listResult: []models.Cat{{Name: "Nyx whisker"}}}
	router := newCatRouter(store)

	w := doRequest(t, router, http.MethodGet, "/cats?limit=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]interface{})
	assert.Len(t, data, 1)
}
