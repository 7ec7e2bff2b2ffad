package handler

import (
	"encoding/json"
	"net/http"
	"sync"
)

// ThemeHandler keeps the UI theme preference. Purely cosmetic; the roster
// core never sees it.
type ThemeHandler struct {
	mu    sync.RWMutex
	theme string
}

func NewThemeHandler(initial string) *ThemeHandler {
	if initial != "light" {
		initial = "dark"
	}
	return &ThemeHandler{theme: initial}
}

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	theme := h.theme
	h.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (h *ThemeHandler) Put(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if payload.Theme != "dark" && payload.Theme != "light" {
		http.Error(w, `theme must be "dark" or "light"`, http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.theme = payload.Theme
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"theme": payload.Theme})
}
