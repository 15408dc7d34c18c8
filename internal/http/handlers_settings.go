package http

import (
	"net/http"
	"strings"

	"zenfin/internal/core"
	"zenfin/internal/ledger"
)

// handleProfile serves the display identity. Loads never fail: the store
// falls back to the default profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, s.settings.Profile(r.Context()))
	case http.MethodPut:
		var profile core.UserProfile
		if err := decodeJSON(r, &profile); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		profile.Name = sanitizeInput(profile.Name)
		if profile.Name == "" {
			respondError(w, http.StatusUnprocessableEntity, "profile name cannot be empty")
			return
		}
		if err := s.settings.SaveProfile(r.Context(), profile); err != nil {
			respondDomainError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

// handleVoices serves the description-to-icon mappings. PUT replaces the
// whole set; blank descriptions are dropped.
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, s.settings.Voices(r.Context()))
	case http.MethodPut:
		var voices []core.VoiceMapping
		if err := decodeJSON(r, &voices); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		kept := make([]core.VoiceMapping, 0, len(voices))
		for _, v := range voices {
			v.Description = sanitizeInput(v.Description)
			v.Icon = sanitizeInput(v.Icon)
			if v.Description == "" {
				continue
			}
			if v.Icon == "" {
				v.Icon = core.DefaultIcon
			}
			kept = append(kept, v)
		}
		if err := s.settings.SaveVoices(r.Context(), kept); err != nil {
			respondDomainError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, kept)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

// preferenceRequest is one named preference on the wire.
type preferenceRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// handlePreferences serves named preferences. Only known keys are accepted;
// GET returns both with their current values.
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prefs := map[string]string{
			ledger.PrefTheme:        s.settings.Preference(r.Context(), ledger.PrefTheme),
			ledger.PrefSyncEndpoint: s.settings.Preference(r.Context(), ledger.PrefSyncEndpoint),
		}
		respondJSON(w, http.StatusOK, prefs)
	case http.MethodPut:
		var req preferenceRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Key = strings.TrimSpace(req.Key)
		if req.Key != ledger.PrefTheme && req.Key != ledger.PrefSyncEndpoint {
			respondError(w, http.StatusUnprocessableEntity, "unknown preference key")
			return
		}
		if err := s.settings.SavePreference(r.Context(), req.Key, sanitizeInput(req.Value)); err != nil {
			respondDomainError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, req)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}
