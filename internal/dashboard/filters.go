package dashboard

import (
	"encoding/json"
	"os"
	"slices"

	"axiom-backend/internal/models"
)

// Filters is the triage view's filter state. Sentiments/priorities/tags are
// multi-select; HasCat narrows to feedback linked to a specimen.
type Filters struct {
	Sentiments []string `json:"sentiments,omitempty"`
	Priorities []string `json:"priorities,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Search     string   `json:"search,omitempty"`
	HasCat     bool     `json:"hasCat,omitempty"`
}

// matchLocal applies the filter dimensions the server can't: multi-selected
// dimensions and the has-cat flag. Single-selected dimensions were already
// pushed into the query, so re-checking them here is harmless.
func (f Filters) matchLocal(fb models.Feedback) bool {
	if f.HasCat && fb.CatID == nil {
		return false
	}
	if len(f.Sentiments) > 0 && !slices.Contains(f.Sentiments, string(fb.Analysis.Sentiment)) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, string(fb.Analysis.Priority)) {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, tag := range f.Tags {
			if slices.Contains(fb.Analysis.Tags, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterStore persists filter state across sessions, the way the web
// dashboard keeps it in browser local storage.
type FilterStore interface {
	Load() (Filters, error)
	Save(Filters) error
}

// FileStore keeps filters in a JSON file. A missing file just means no saved
// filters yet.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Filters, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Filters{}, nil
		}
		return Filters{}, err
	}
	var f Filters
	if err := json.Unmarshal(data, &f); err != nil {
		return Filters{}, err
	}
	return f, nil
}

func (s *FileStore) Save(f Filters) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
