package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"axiom-backend/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type apiFixture struct {
	items      []models.Feedback
	listCalls  int
	deletedIDs []string
	patched    map[string]string
}

func (f *apiFixture) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /feedback", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    f.items,
			"pagination": map[string]interface{}{
				"total":    len(f.items),
				"page":     1,
				"pageSize": 20,
			},
		})
	})

	mux.HandleFunc("DELETE /feedback", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.deletedIDs = append(f.deletedIDs, body.IDs...)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"deletedCount": len(body.IDs),
			"deletedIds":   body.IDs,
		})
	})

	mux.HandleFunc("DELETE /feedback/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		f.deletedIDs = append(f.deletedIDs, id)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"deletedId": id,
		})
	})

	mux.HandleFunc("PATCH /feedback/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			NextAction string `json:"nextAction"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if f.patched == nil {
			f.patched = map[string]string{}
		}
		id := r.PathValue("id")
		f.patched[id] = body.NextAction

		for _, fb := range f.items {
			if fb.ID.Hex() == id {
				fb.Analysis.NextAction = body.NextAction
				json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": fb})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"message": "Feedback not found", "code": "NOT_FOUND"},
		})
	})

	return mux
}

func feedbackItem(sentiment models.Sentiment, priority models.Priority, withCat bool) models.Feedback {
	fb := models.Feedback{
		ID:   bson.NewObjectID(),
		Text: "some feedback",
		Analysis: models.Analysis{
			Summary:    "summary",
			Sentiment:  sentiment,
			Tags:       []string{"general"},
			Priority:   priority,
			NextAction: "respond to the customer promptly",
		},
	}
	if withCat {
		catID := bson.NewObjectID()
		fb.CatID = &catID
	}
	return fb
}

func newFixtureClient(t *testing.T, fixture *apiFixture) (*Client, *FileStore) {
	t.Helper()
	server := httptest.NewServer(fixture.handler())
	t.Cleanup(server.Close)

	store := NewFileStore(filepath.Join(t.TempDir(), "filters.json"))
	client, err := NewClient(server.URL, store, zerolog.Nop())
	require.NoError(t, err)
	return client, store
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "filters.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Filters{}, loaded, "missing file means empty filters")

	saved := Filters{Sentiments: []string{"negative"}, Search: "glow", HasCat: true}
	require.NoError(t, store.Save(saved))

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSetFilters_PersistsAndResetsPage(t *testing.T) {
	fixture := &apiFixture{}
	client, store := newFixtureClient(t, fixture)

	require.NoError(t, client.SetPage(context.Background(), 4))
	assert.Equal(t, 4, client.Page())

	filters := Filters{Priorities: []string{"P0"}}
	require.NoError(t, client.SetFilters(context.Background(), filters))

	assert.Equal(t, 1, client.Page(), "filter change resets to first page")

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, filters, persisted)
}

func TestRefresh_LocalHasCatFilter(t *testing.T) {
	withCat := feedbackItem(models.SentimentNeutral, models.PriorityP2, true)
	without := feedbackItem(models.SentimentNeutral, models.PriorityP2, false)
	fixture := &apiFixture{items: []models.Feedback{withCat, without}}
	client, _ := newFixtureClient(t, fixture)

	require.NoError(t, client.SetFilters(context.Background(), Filters{HasCat: true}))

	require.Len(t, client.Items(), 1)
	assert.Equal(t, withCat.ID.Hex(), client.Items()[0].ID.Hex())
}

func TestRefresh_MultiSelectFilteredLocally(t *testing.T) {
	p0 := feedbackItem(models.SentimentNegative, models.PriorityP0, false)
	p1 := feedbackItem(models.SentimentNegative, models.PriorityP1, false)
	p3 := feedbackItem(models.SentimentPositive, models.PriorityP3, false)
	fixture := &apiFixture{items: []models.Feedback{p0, p1, p3}}
	client, _ := newFixtureClient(t, fixture)

	require.NoError(t, client.SetFilters(context.Background(), Filters{Priorities: []string{"P0", "P1"}}))

	require.Len(t, client.Items(), 2)
	for _, fb := range client.Items() {
		assert.Contains(t, []models.Priority{models.PriorityP0, models.PriorityP1}, fb.Analysis.Priority)
	}
}

func TestRefresh_PrunesSelection(t *testing.T) {
	keep := feedbackItem(models.SentimentNeutral, models.PriorityP2, false)
	gone := feedbackItem(models.SentimentNeutral, models.PriorityP2, false)
	fixture := &apiFixture{items: []models.Feedback{keep, gone}}
	client, _ := newFixtureClient(t, fixture)

	require.NoError(t, client.Refresh(context.Background()))
	client.ToggleSelect(keep.ID.Hex())
	client.ToggleSelect(gone.ID.Hex())
	require.Len(t, client.SelectedIDs(), 2)

	fixture.items = []models.Feedback{keep}
	require.NoError(t, client.Refresh(context.Background()))

	assert.Equal(t, []string{keep.ID.Hex()}, client.SelectedIDs())
}

func TestDeleteFlow_SingleRequiresConfirmation(t *testing.T) {
	item := feedbackItem(models.SentimentNegative, models.PriorityP1, false)
	fixture := &apiFixture{items: []models.Feedback{item}}
	client, _ := newFixtureClient(t, fixture)

	require.NoError(t, client.Refresh(context.Background()))
	listCallsBefore := fixture.listCalls

	client.RequestDelete(item.ID.Hex())
	pending := client.PendingDelete()
	require.NotNil(t, pending)
	assert.False(t, pending.Bulk)
	assert.Empty(t, fixture.deletedIDs, "nothing deleted before confirmation")

	require.NoError(t, client.ConfirmDelete(context.Background()))

	assert.Equal(t, []string{item.ID.Hex()}, fixture.deletedIDs)
	assert.Empty(t, client.Items(), "deleted item removed from local state")
	assert.Nil(t, client.PendingDelete())
	assert.Equal(t, listCallsBefore, fixture.listCalls, "no refetch after delete")
}

func TestDeleteFlow_BulkFromSelection(t *testing.T) {
	a := feedbackItem(models.SentimentNegative, models.PriorityP1, false)
	b := feedbackItem(models.SentimentNegative, models.PriorityP1, false)
	c := feedbackItem(models.SentimentPositive, models.PriorityP3, false)
	fixture := &apiFixture{items: []models.Feedback{a, b, c}}
	client, _ := newFixtureClient(t, fixture)

	require.NoError(t, client.Refresh(context.Background()))
	client.ToggleSelect(a.ID.Hex())
	client.ToggleSelect(b.ID.Hex())

	client.RequestBulkDelete()
	pending := client.PendingDelete()
	require.NotNil(t, pending)
	assert.True(t, pending.Bulk)
	assert.Len(t, pending.IDs, 2)

	require.NoError(t, client.ConfirmDelete(context.Background()))

	assert.ElementsMatch(t, []string{a.ID.Hex(), b.ID.Hex()}, fixture.deletedIDs)
	require.Len(t, client.Items(), 1)
	assert.Equal(t, c.ID.Hex(), client.Items()[0].ID.Hex())
	assert.Empty(t, client.SelectedIDs())
}

func TestCancelDelete(t *testing.T) {
	item := feedbackItem(models.SentimentNegative, models.PriorityP1, false)
	fixture := &apiFixture{items: []models.Feedback{item}}
	client, _ := newFixtureClient(t, fixture)

	client.RequestDelete(item.ID.Hex())
	client.CancelDelete()

	assert.Nil(t, client.PendingDelete())
	err := client.ConfirmDelete(context.Background())
	assert.Error(t, err, "confirming with nothing pending fails")
}

func TestUpdateNextAction_OptimisticLocalUpdate(t *testing.T) {
	item := feedbackItem(models.SentimentNeutral, models.PriorityP2, false)
	fixture := &apiFixture{items: []models.Feedback{item}}
	client, _ := newFixtureClient(t, fixture)

	require.NoError(t, client.Refresh(context.Background()))
	listCallsBefore := fixture.listCalls

	next := "escalate to the genome engineering team"
	require.NoError(t, client.UpdateNextAction(context.Background(), item.ID.Hex(), next))

	assert.Equal(t, next, fixture.patched[item.ID.Hex()])
	require.Len(t, client.Items(), 1)
	assert.Equal(t, next, client.Items()[0].Analysis.NextAction)
	assert.Equal(t, listCallsBefore, fixture.listCalls, "no refetch after update")
}

func TestAPIErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"message": "Failed to fetch feedback", "code": "DATABASE_ERROR"},
		})
	}))
	t.Cleanup(server.Close)

	store := NewFileStore(filepath.Join(t.TempDir(), "filters.json"))
	client, err := NewClient(server.URL, store, zerolog.Nop())
	require.NoError(t, err)

	err = client.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch feedback", err.Error())
}
