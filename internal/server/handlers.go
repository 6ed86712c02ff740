package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/render"
)

// CacheHeader reports whether the layout came from the cache ("hit" or "miss").
const CacheHeader = "X-Topicmap-Cache"

type toggleRequest struct {
	Hierarchy json.RawMessage `json:"hierarchy"`
	Collapsed []string        `json:"collapsed"`
	NodeID    string          `json:"node_id"`
}

type renderRequest struct {
	Hierarchy json.RawMessage `json:"hierarchy"`
	Collapsed []string        `json:"collapsed"`
	Detailed  bool            `json:"detailed"`
	Engine    string          `json:"engine"`
}

// POST /api/v1/layout: body is a hierarchy, response is the uncollapsed layout.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	h, err := pipeline.Decode(r.Context(), r.Body, "json")
	if err != nil {
		writeError(w, err)
		return
	}
	l, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), h, s.opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set(CacheHeader, cacheStatus(hit))
	writeJSON(w, http.StatusOK, l)
}

// POST /api/v1/toggle
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateNodeID(req.NodeID); err != nil {
		writeError(w, err)
		return
	}
	h, err := decodeHierarchy(r.Context(), req.Hierarchy)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Toggle(r.Context(), h, req.Collapsed, req.NodeID, s.opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/render?format=svg|dot|json|png|pdf
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if err := render.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	var req renderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h, err := decodeHierarchy(r.Context(), req.Hierarchy)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.opts
	opts.Formats = []string{format}
	opts.Collapsed = req.Collapsed
	opts.Detailed = req.Detailed
	if req.Engine != "" {
		opts.Engine = req.Engine
	}

	res, err := s.runner.Execute(r.Context(), h, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set(CacheHeader, cacheStatus(res.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// POST /api/v1/hierarchies
func (s *Server) handleCreateHierarchy(w http.ResponseWriter, r *http.Request) {
	h, err := pipeline.Decode(r.Context(), r.Body, "json")
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.store.Create(r.Context(), h)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/hierarchies/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

// GET /api/v1/hierarchies
func (s *Server) handleListHierarchies(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/hierarchies/{id}
func (s *Server) handleGetHierarchy(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/v1/hierarchies/{id}
func (s *Server) handleDeleteHierarchy(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/hierarchies/{id}/layout?collapsed=t0,t2
func (s *Server) handleHierarchyLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	base, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), rec.Hierarchy, s.opts)
	if err != nil {
		writeError(w, err)
		return
	}
	l, _, err := pipeline.ApplyCollapsed(base, splitList(r.URL.Query().Get("collapsed")), s.opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set(CacheHeader, cacheStatus(hit))
	writeJSON(w, http.StatusOK, l)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if tooLarge(err) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

func decodeHierarchy(ctx context.Context, raw json.RawMessage) (*hierarchy.Node, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(raw) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing hierarchy")
	}
	return pipeline.Decode(ctx, bytes.NewReader(raw), "json")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
