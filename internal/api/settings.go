package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/settings"
)

const maskedSecret = "********"

// SettingRequest is the body of PUT /v1/settings/{name}.
type SettingRequest struct {
	Value string `json:"value"`
}

// SettingResponse is the resolved value for the request's tenant.
type SettingResponse struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Tenant string `json:"tenant,omitempty"`
}

func (s *Server) getSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	v, err := s.settings.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if name == settings.SMTPPassword && v != "" {
		v = maskedSecret
	}
	writeJSON(w, http.StatusOK, SettingResponse{
		Name:   name,
		Value:  v,
		Tenant: mailer.TenantFromContext(r.Context()),
	})
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	name := chi.URLParam(r, "name")
	tenantID := mailer.TenantFromContext(r.Context())

	if err := s.settings.Set(r.Context(), tenantID, name, req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.settings.Delete(r.Context(), mailer.TenantFromContext(r.Context()), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
