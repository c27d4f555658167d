package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/medreminder/internal/common"
)

const maxBodyBytes = 1 << 20

// envelope is the response body: {"success": ..., "error"?: ..., payload...}.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ok writes a 200 success envelope merged with payload.
func ok(w http.ResponseWriter, payload envelope) {
	body := envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// fail maps err to its code and status. Server errors are logged; their
// details never reach the client.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, err error) {
	code, status := common.Classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "code", code, "error", err)
	}
	writeJSON(w, status, envelope{"success": false, "error": code})
}

// decode reads a JSON body into v. Any decoding failure is invalid input.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}
