package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/intentlang/internal/language"
	"github.com/ziadkadry99/intentlang/internal/schema"
)

// IntentLookup resolves intent schemas for the tokenize endpoint.
type IntentLookup interface {
	Intent(name string) (schema.Intent, bool)
}

// RegisterRoutes mounts the catalog API routes.
func RegisterRoutes(r chi.Router, store *Store, intents IntentLookup) {
	r.Get("/api/snapshot", handleSnapshot(store))
	r.Route("/api/intents", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{intent}/{lang}", handleGet(store))
		r.Get("/{intent}/{lang}/responses", handleResponses(store))
	})
	r.Get("/api/entities/{entity}/{lang}", handleEntity(store))
	r.Post("/api/tokenize", handleTokenize(intents))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleSnapshot(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := store.LatestSnapshot(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if snap == nil {
			writeError(w, http.StatusNotFound, "no snapshot, run intentlang index first")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Intent:   r.URL.Query().Get("intent"),
			Language: r.URL.Query().Get("language"),
			Status:   Status(r.URL.Query().Get("status")),
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		entries, err := store.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []IntentEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := store.Get(r.Context(), chi.URLParam(r, "intent"), chi.URLParam(r, "lang"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entry == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleResponses(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group := language.GroupDefault
		if v := r.URL.Query().Get("group"); v != "" {
			g, err := language.ParseResponseGroup(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			group = g
		}

		entry, err := store.Get(r.Context(), chi.URLParam(r, "intent"), chi.URLParam(r, "lang"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entry == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if entry.Status == StatusFailed {
			writeError(w, http.StatusUnprocessableEntity, entry.Error)
			return
		}

		responses := entry.Data.ResponsesFor(group)
		if responses == nil {
			responses = []language.IntentResponse{}
		}
		writeJSON(w, http.StatusOK, responses)
	}
}

func handleEntity(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := store.Entities(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "lang"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entry == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

type tokenizeRequest struct {
	Intent  string `json:"intent"`
	Example string `json:"example"`
}

type tokenizeResponse struct {
	Intent    string                    `json:"intent"`
	Example   string                    `json:"example"`
	PlainText string                    `json:"plain_text"`
	Chunks    []language.UtteranceChunk `json:"chunks"`
}

func handleTokenize(intents IntentLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Intent == "" {
			writeError(w, http.StatusBadRequest, "intent is required")
			return
		}

		intent, ok := intents.Intent(req.Intent)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown intent "+req.Intent)
			return
		}
		chunks, err := language.Tokenize(req.Example, intent.ParameterSchema(), intent.Name)
		if err != nil {
			var unknown *language.UnknownParameterError
			if errors.As(err, &unknown) {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if chunks == nil {
			chunks = []language.UtteranceChunk{}
		}
		writeJSON(w, http.StatusOK, tokenizeResponse{
			Intent:    intent.Name,
			Example:   req.Example,
			PlainText: language.PlainText(chunks),
			Chunks:    chunks,
		})
	}
}
