package api

import (
	"fmt"
	"net/http"

	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/kjannette/fourmeme-abis/internal/models"
)

type abiSummary struct {
	Name          abis.Name `json:"name"`
	Symbol        string    `json:"symbol"`
	Source        string    `json:"source"`
	Hash          string    `json:"hash"`
	FragmentCount int       `json:"fragmentCount"`
}

type latestResponse struct {
	Snapshot *models.ABISnapshot `json:"snapshot"`
	// Current is true when the registry in effect still serves this content.
	Current bool `json:"current"`
}

type reloadResponse struct {
	Changed     []abis.Name `json:"changed"`
	Fingerprint string      `json:"fingerprint"`
}

type fragmentsResponse struct {
	Name      abis.Name       `json:"name"`
	Symbol    string          `json:"symbol"`
	Fragments []abis.Fragment `json:"fragments"`
}

// resolveName parses the {name} path value, writing a 404 on failure.
func (s *Server) resolveName(w http.ResponseWriter, r *http.Request) (abis.Name, bool) {
	raw := r.PathValue("name")
	n, err := abis.ParseName(raw)
	if err != nil {
		s.metrics.lookup(raw, "not_found")
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown ABI %q", raw))
		return "", false
	}
	s.metrics.lookup(string(n), "ok")
	return n, true
}

func (s *Server) handleListABIs(w http.ResponseWriter, r *http.Request) {
	entries := s.registry().Entries()
	out := make([]abiSummary, len(entries))
	for i, e := range entries {
		out[i] = abiSummary{
			Name:          e.Name,
			Symbol:        e.Symbol(),
			Source:        e.Source,
			Hash:          e.Hash.Hex(),
			FragmentCount: e.FragmentCount,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetABI writes the ABI JSON exactly as registered.
func (s *Server) handleGetABI(w http.ResponseWriter, r *http.Request) {
	n, ok := s.resolveName(w, r)
	if !ok {
		return
	}
	e, err := s.registry().Entry(n)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", `"`+e.Hash.Hex()+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(e.JSON))
}

func (s *Server) handleFragments(w http.ResponseWriter, r *http.Request) {
	n, ok := s.resolveName(w, r)
	if !ok {
		return
	}

	typ := r.URL.Query().Get("type")
	if typ != "" && !abis.ValidFragmentType(typ) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid fragment type %q", typ))
		return
	}

	frags, err := s.registry().Fragments(n)
	if err != nil {
		fmt.Printf("[API] Error decoding %s fragments: %v\n", n, err)
		writeError(w, http.StatusInternalServerError, "failed to decode ABI")
		return
	}

	writeJSON(w, http.StatusOK, fragmentsResponse{
		Name:      n,
		Symbol:    n.Symbol(),
		Fragments: abis.FilterFragments(frags, typ),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	n, ok := s.resolveName(w, r)
	if !ok {
		return
	}
	if s.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot history is disabled")
		return
	}

	limit := parseLimit(r, 50)
	history, err := s.snapshots.GetHistory(r.Context(), string(n), limit)
	if err != nil {
		fmt.Printf("[API] Error fetching %s history: %v\n", n, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	if history == nil {
		history = []models.ABISnapshot{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	n, ok := s.resolveName(w, r)
	if !ok {
		return
	}
	if s.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot history is disabled")
		return
	}

	snap, err := s.snapshots.GetLatest(r.Context(), string(n))
	if err != nil {
		fmt.Printf("[API] Error fetching latest %s snapshot: %v\n", n, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch snapshot")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no snapshot recorded for %s", n))
		return
	}

	e, err := s.registry().Entry(n)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	live := &models.ABISnapshot{Name: string(n), ContentHash: e.Hash.Hex()}
	writeJSON(w, http.StatusOK, latestResponse{
		Snapshot: snap,
		Current:  live.SameContent(snap),
	})
}

// handleReload rebuilds the registry from the override dir immediately.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		writeError(w, http.StatusServiceUnavailable, "reload is disabled")
		return
	}

	changed, err := s.reloader.ReloadNow(r.Context())
	if err != nil {
		fmt.Printf("[API] Reload failed: %v\n", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if changed == nil {
		changed = []abis.Name{}
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Changed:     changed,
		Fingerprint: s.registry().Fingerprint().Hex(),
	})
}
