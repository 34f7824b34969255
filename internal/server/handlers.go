package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/pipeline"
	"github.com/daniel/scriptstudio/internal/server/middleware"
	"github.com/daniel/scriptstudio/internal/styles"
	"github.com/daniel/scriptstudio/internal/subtitle"
)

// handleListStyles returns the visual style preset catalog.
func (s *Server) handleListStyles(w http.ResponseWriter, _ *http.Request) {
	all, err := styles.All()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "style catalog unavailable")
		return
	}

	out := make([]StyleResponse, len(all))
	for i, st := range all {
		out[i] = StyleResponse{Name: st.Name, Label: st.Label, Description: st.Description}
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleGetKeys reports how many credentials the caller has stored.
func (s *Server) handleGetKeys(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	raw, err := s.keys.LoadCredentials(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load credentials")
		return
	}
	if strings.TrimSpace(raw) == "" {
		err := &ErrNoStoredKeys{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, KeysResponse{KeyCount: countKeys(raw)})
}

// handlePutKeys stores the caller's credential blob.
func (s *Server) handlePutKeys(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if countKeys(req.Keys) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "no usable keys in request")
		return
	}

	if err := s.keys.SaveCredentials(r.Context(), userID, req.Keys); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save credentials")
		return
	}
	s.jsonResponse(w, http.StatusOK, KeysResponse{KeyCount: countKeys(req.Keys)})
}

// handleDeleteKeys removes the caller's stored credential blob.
func (s *Server) handleDeleteKeys(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.keys.DeleteCredentials(r.Context(), userID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete credentials")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// countKeys counts non-blank lines in a credential blob.
func countKeys(raw string) int {
	count := 0
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// fallbackFor builds the model fallback executor for a user: stored
// credentials first, then the server-level key, then the environment.
func (s *Server) fallbackFor(ctx context.Context, r *http.Request, models []string) (*llm.Fallback, error) {
	raw := ""
	if userID, err := middleware.GetUserID(r); err == nil {
		stored, err := s.keys.LoadCredentials(ctx, userID)
		if err != nil {
			return nil, err
		}
		raw = stored
	}
	if strings.TrimSpace(raw) == "" {
		raw = s.apiKey
	}

	creds := llm.ResolveCredentials(raw)
	if len(creds) == 0 {
		return nil, &ErrNoStoredKeys{}
	}
	return llm.NewFallback(creds, models), nil
}

// handleTranslate translates an SRT file and returns the rebuilt file.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	items, err := subtitle.Parse(req.SRT)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	fb, err := s.fallbackFor(r.Context(), r, llm.TranslateModels())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	translated, err := s.translate(r.Context(), fb, items, req.Language, req.Notes)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, TranslateResponse{SRT: subtitle.Format(translated)})
}

// handleRunStream runs the full pipeline over the posted text and streams
// progress as Server-Sent Events. Failed segments are skipped and reported;
// the run continues with the rest.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	fb, err := s.fallbackFor(r.Context(), r, llm.VisualModels())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc := pipeline.NewDocument(req.Text)
	if req.Style != "" {
		if st, ok := styles.Lookup(req.Style); ok {
			doc.Style = st.Name
		} else {
			doc.Style = req.Style
		}
	}

	runner := s.newRunner(fb)
	if req.RowCount > 0 {
		runner.RowCount = req.RowCount
	}
	runner.OnProgress = func(ev pipeline.ProgressEvent) {
		stream.send("progress", ev) //nolint:errcheck
	}
	runner.OnFailure = func(segment int, stage string, err error) pipeline.Decision {
		stream.send("segment_failed", map[string]any{ //nolint:errcheck
			"segment": segment,
			"stage":   stage,
			"error":   err.Error(),
		})
		return pipeline.DecisionSkip
	}

	if err := runner.AutoRun(r.Context(), doc); err != nil {
		stream.fail(err.Error())
		return
	}

	stream.send("result", map[string]any{ //nolint:errcheck
		"style":         doc.Style,
		"segments":      doc.Segments,
		"image_prompts": pipeline.CollectAll(doc.Segments, pipeline.FieldImagePrompts),
		"video_prompts": pipeline.CollectAll(doc.Segments, pipeline.FieldVideoPrompts),
	})
	stream.done("done")
}
