// Package overlay exposes the engine's read and control API.
package overlay

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridlens/gridlens/core/logger"
	"github.com/gridlens/gridlens/core/model"
	coreoverlay "github.com/gridlens/gridlens/core/overlay"
	"github.com/gridlens/gridlens/core/poller"
	"github.com/gridlens/gridlens/core/projection"
	"github.com/gridlens/gridlens/core/scene"
	"github.com/gridlens/gridlens/core/selection"
	"github.com/gridlens/gridlens/core/stats"
)

// Default viewport when the scene request does not specify one.
const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 960
)

// Handler serves the overlay API.
type Handler struct {
	store       *coreoverlay.Store
	poll        *poller.Poller
	sel         *selection.Controller
	log         logger.Logger
	defaultProj string
}

// NewHandler creates a handler over the given collaborators.
func NewHandler(store *coreoverlay.Store, poll *poller.Poller, sel *selection.Controller, log logger.Logger) *Handler {
	return &Handler{store: store, poll: poll, sel: sel, log: log}
}

// SetDefaultProjection sets the strategy used when a scene request
// does not name one.
func (h *Handler) SetDefaultProjection(name string) { h.defaultProj = name }

// Routes mounts all endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/scene", h.getScene)
	r.Get("/layers", h.getLayers)
	r.Post("/layers/{kind}/visibility", h.setVisibility)
	r.Post("/layers/{kind}/opacity", h.setOpacity)
	r.Get("/summary", h.getSummary)
	r.Get("/opportunities", h.getOpportunities)
	r.Get("/status", h.getStatus)
	r.Post("/refresh", h.refresh)
	r.Get("/selection", h.getSelection)
	r.Post("/selection", h.postSelection)
	r.Delete("/selection", h.deleteSelection)
	return r
}

func (h *Handler) getScene(w http.ResponseWriter, r *http.Request) {
	vp := projection.Viewport{Width: defaultViewportWidth, Height: defaultViewportHeight}
	if v := r.URL.Query().Get("width"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			vp.Width = f
		}
	}
	if v := r.URL.Query().Get("height"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			vp.Height = f
		}
	}
	name := r.URL.Query().Get("projection")
	if name == "" {
		name = h.defaultProj
	}
	proj := projection.ForName(name)

	var selPtr *model.Selection
	if sel, ok := h.sel.Current(); ok {
		selPtr = &sel
	}
	sc := scene.Build(h.store.Snapshot(), selPtr, proj, vp)
	for _, d := range sc.Dropped {
		h.log.Warnf("scene dropped %s %q: %s", d.Layer, d.ID, d.Reason)
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *Handler) getLayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.States())
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseLayerKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown layer")
		return
	}
	var body struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.store.SetVisible(kind, body.Visible); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	st, _ := h.store.State(kind)
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) setOpacity(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseLayerKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown layer")
		return
	}
	var body struct {
		Opacity float64 `json:"opacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.store.SetOpacity(kind, body.Opacity); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	st, _ := h.store.State(kind)
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) getSummary(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.poll.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no snapshot received yet")
		return
	}
	data := h.store.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		stats.Summary
		Regional stats.RegionalCarbon `json:"regional_carbon"`
	}{
		Summary:  stats.Summarize(snap),
		Regional: stats.SummarizeRegions(data.CarbonRegions),
	})
}

func (h *Handler) getOpportunities(w http.ResponseWriter, _ *http.Request) {
	opps := h.poll.Opportunities()
	if opps == nil {
		opps = []model.FlexibilityOpportunity{}
	}
	writeJSON(w, http.StatusOK, opps)
}

func (h *Handler) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Connected bool                             `json:"connected"`
		Running   bool                             `json:"running"`
		Documents map[string]poller.DocumentStatus `json:"documents"`
	}{
		Connected: h.poll.Connected(),
		Running:   h.poll.Running(),
		Documents: h.poll.Status(),
	})
}

func (h *Handler) refresh(w http.ResponseWriter, _ *http.Request) {
	h.poll.RefreshNow()
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) getSelection(w http.ResponseWriter, _ *http.Request) {
	sel, ok := h.sel.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "nothing selected")
		return
	}
	entity, present := h.sel.Resolve()
	writeJSON(w, http.StatusOK, struct {
		Selection model.Selection `json:"selection"`
		Present   bool            `json:"present"`
		Entity    any             `json:"entity,omitempty"`
	}{Selection: sel, Present: present, Entity: entity})
}

func (h *Handler) postSelection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string  `json:"id"`
		Fuel        *string `json:"fuel_type"`
		NodeKind    *string `json:"node_type"`
		CountryCode *string `json:"country_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	sel, err := h.sel.SelectEntity(body.ID, body.Fuel != nil, body.NodeKind != nil, body.CountryCode != nil)
	if err != nil {
		if errors.Is(err, model.ErrAmbiguousEntity) || errors.Is(err, model.ErrUnclassifiedEntity) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (h *Handler) deleteSelection(w http.ResponseWriter, _ *http.Request) {
	h.sel.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
