package records

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/commhealth/recordkit/pkg/requestid"
	"github.com/commhealth/recordkit/pkg/validation"
)

// validateResponse is the wire shape of a validation call.
type validateResponse struct {
	Valid  bool               `json:"valid"`
	Errors []validation.Error `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handle returns the module's HTTP surface:
//
//	POST /{form}    validate a JSON document against the form's ruleset
//	GET  /forms     list registered form codes
//	GET  /metrics   Prometheus exposition (when metrics are attached)
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Post("/{form}", s.handleValidate)
	r.Get("/forms", s.handleForms)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

func (s *Service) handleValidate(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be a JSON document"})
		return
	}

	errs, err := s.ValidateRecord(r.Context(), form, doc)
	switch {
	case errors.Is(err, ErrUnknownForm):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown form: " + form})
		return
	case err != nil:
		// Rules come from server configuration and the store is a backend
		// dependency; neither failure is the client's fault.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "validation could not complete"})
		return
	}

	if errs == nil {
		errs = []validation.Error{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(errs) == 0, Errors: errs})
}

func (s *Service) handleForms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"forms": s.registry.Forms()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
