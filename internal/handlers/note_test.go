package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gonotes/internal/handlers"
	"github.com/jonesrussell/gonotes/internal/models"
	"github.com/jonesrussell/gonotes/internal/repository"
	"github.com/jonesrussell/gonotes/internal/testhelpers"
)

// MockNoteStore is a testify mock of the handlers.NoteStore interface.
type MockNoteStore struct {
	mock.Mock
}

func (m *MockNoteStore) List(ctx context.Context, category string) ([]models.Note, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteStore) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteStore) Create(ctx context.Context, title, content, category string) (int64, error) {
	args := m.Called(ctx, title, content, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNoteStore) Update(ctx context.Context, id int64, update models.NoteUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockNoteStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteStore) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func setupRouter(store handlers.NoteStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := handlers.NewNoteHandler(store, nil, testhelpers.NewTestLogger())
	router := gin.New()
	router.GET("/api/notes", handler.List)
	router.POST("/api/notes", handler.Create)
	router.GET("/api/notes/:id", handler.GetByID)
	router.PUT("/api/notes/:id", handler.Update)
	router.DELETE("/api/notes/:id", handler.Delete)
	router.GET("/api/stats", handler.Stats)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func strPtr(s string) *string { return &s }

func TestNoteHandler_List(t *testing.T) {
	t.Run("returns notes as a JSON array", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("List", mock.Anything, "").Return([]models.Note{
			{ID: 2, Title: "second", Content: "b", Category: strPtr("work")},
			{ID: 1, Title: "first", Content: "a", Category: strPtr("general")},
		}, nil)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var notes []models.Note
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
		require.Len(t, notes, 2)
		assert.Equal(t, int64(2), notes[0].ID)
		store.AssertExpectations(t)
	})

	t.Run("empty table returns empty array, not null", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("List", mock.Anything, "").Return([]models.Note{}, nil)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("passes the category filter through", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("List", mock.Anything, "work").Return([]models.Note{}, nil)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes?category=work", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("store failure returns a generic 500", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("List", mock.Anything, "").Return(nil, errors.New("connection refused"))

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to retrieve notes", decodeBody(t, w)["error"])
	})
}

func TestNoteHandler_GetByID(t *testing.T) {
	t.Run("returns the note", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("GetByID", mock.Anything, int64(7)).Return(&models.Note{
			ID: 7, Title: "t", Content: "c", Category: strPtr("general"),
		}, nil)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes/7", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "t", body["title"])
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Note not found", decodeBody(t, w)["error"])
	})

	t.Run("non-integer id returns 404 without a store call", func(t *testing.T) {
		store := new(MockNoteStore)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes/abc", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Note not found", decodeBody(t, w)["error"])
		store.AssertNotCalled(t, "GetByID")
	})

	t.Run("store failure returns a generic 500", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("GetByID", mock.Anything, int64(7)).Return(nil, errors.New("boom"))

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/notes/7", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to retrieve note", decodeBody(t, w)["error"])
	})
}

func TestNoteHandler_Create(t *testing.T) {
	t.Run("creates a note and returns the id", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Create", mock.Anything, "Title", "Content", "work").Return(int64(42), nil)

		w := doRequest(t, setupRouter(store), http.MethodPost, "/api/notes", gin.H{
			"title":    "Title",
			"content":  "Content",
			"category": "work",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Note created successfully", body["message"])
		assert.Equal(t, float64(42), body["id"])
		store.AssertExpectations(t)
	})

	t.Run("category defaults when absent", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Create", mock.Anything, "Title", "Content", models.DefaultCategory).Return(int64(1), nil)

		w := doRequest(t, setupRouter(store), http.MethodPost, "/api/notes", gin.H{
			"title":   "Title",
			"content": "Content",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("missing title returns 400", func(t *testing.T) {
		store := new(MockNoteStore)

		w := doRequest(t, setupRouter(store), http.MethodPost, "/api/notes", gin.H{
			"content": "Content",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title and content are required", decodeBody(t, w)["error"])
		store.AssertNotCalled(t, "Create")
	})

	t.Run("missing content returns 400", func(t *testing.T) {
		store := new(MockNoteStore)

		w := doRequest(t, setupRouter(store), http.MethodPost, "/api/notes", gin.H{
			"title": "Title",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title and content are required", decodeBody(t, w)["error"])
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		store := new(MockNoteStore)
		router := setupRouter(store)

		req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title and content are required", decodeBody(t, w)["error"])
	})

	t.Run("store failure returns a generic 500", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Create", mock.Anything, "Title", "Content", models.DefaultCategory).
			Return(int64(0), errors.New("boom"))

		w := doRequest(t, setupRouter(store), http.MethodPost, "/api/notes", gin.H{
			"title":   "Title",
			"content": "Content",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to create note", decodeBody(t, w)["error"])
	})
}

func TestNoteHandler_Update(t *testing.T) {
	t.Run("updates supplied fields", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Update", mock.Anything, int64(5),
			models.NoteUpdate{Title: strPtr("New title")}).Return(nil)

		w := doRequest(t, setupRouter(store), http.MethodPut, "/api/notes/5", gin.H{
			"title": "New title",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Note updated successfully", decodeBody(t, w)["message"])
		store.AssertExpectations(t)
	})

	t.Run("missing body returns 400", func(t *testing.T) {
		store := new(MockNoteStore)

		w := doRequest(t, setupRouter(store), http.MethodPut, "/api/notes/5", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No data provided", decodeBody(t, w)["error"])
		store.AssertNotCalled(t, "Update")
	})

	t.Run("body with no known fields returns 400", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Update", mock.Anything, int64(5), models.NoteUpdate{}).
			Return(repository.ErrNoFields)

		w := doRequest(t, setupRouter(store), http.MethodPut, "/api/notes/5", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No valid fields to update", decodeBody(t, w)["error"])
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Update", mock.Anything, int64(99), mock.Anything).
			Return(repository.ErrNotFound)

		w := doRequest(t, setupRouter(store), http.MethodPut, "/api/notes/99", gin.H{
			"title": "New title",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Note not found", decodeBody(t, w)["error"])
	})

	t.Run("non-integer id returns 404", func(t *testing.T) {
		store := new(MockNoteStore)

		w := doRequest(t, setupRouter(store), http.MethodPut, "/api/notes/abc", gin.H{
			"title": "New title",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		store.AssertNotCalled(t, "Update")
	})

	t.Run("store failure returns a generic 500", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Update", mock.Anything, int64(5), mock.Anything).
			Return(errors.New("boom"))

		w := doRequest(t, setupRouter(store), http.MethodPut, "/api/notes/5", gin.H{
			"title": "New title",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to update note", decodeBody(t, w)["error"])
	})
}

func TestNoteHandler_Delete(t *testing.T) {
	t.Run("deletes the note", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Delete", mock.Anything, int64(5)).Return(nil)

		w := doRequest(t, setupRouter(store), http.MethodDelete, "/api/notes/5", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Note deleted successfully", decodeBody(t, w)["message"])
		store.AssertExpectations(t)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Delete", mock.Anything, int64(99)).Return(repository.ErrNotFound)

		w := doRequest(t, setupRouter(store), http.MethodDelete, "/api/notes/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Note not found", decodeBody(t, w)["error"])
	})

	t.Run("store failure returns a generic 500", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Delete", mock.Anything, int64(5)).Return(errors.New("boom"))

		w := doRequest(t, setupRouter(store), http.MethodDelete, "/api/notes/5", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to delete note", decodeBody(t, w)["error"])
	})
}

func TestNoteHandler_Stats(t *testing.T) {
	t.Run("returns totals and per-category counts", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Stats", mock.Anything).Return(&models.Stats{
			TotalNotes: 5,
			Categories: map[string]int64{"work": 3, "general": 2},
		}, nil)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/stats", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(5), body["total_notes"])
		categories, ok := body["categories"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(3), categories["work"])
		assert.Equal(t, float64(2), categories["general"])
	})

	t.Run("empty table reports zero and an empty object", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Stats", mock.Anything).Return(&models.Stats{
			TotalNotes: 0,
			Categories: map[string]int64{},
		}, nil)

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/stats", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(0), body["total_notes"])
		assert.Equal(t, map[string]any{}, body["categories"])
	})

	t.Run("store failure returns a generic 500", func(t *testing.T) {
		store := new(MockNoteStore)
		store.On("Stats", mock.Anything).Return(nil, errors.New("boom"))

		w := doRequest(t, setupRouter(store), http.MethodGet, "/api/stats", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to retrieve stats", decodeBody(t, w)["error"])
	})
}
