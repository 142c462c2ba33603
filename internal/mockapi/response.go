package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/me/shopctl/pkg/model"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes the error body clients read message from.
func respondError(w http.ResponseWriter, status int, code model.ErrorCode, message string) {
	respondJSON(w, status, model.ErrorBody{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched and reports false.
func decodeJSON(r *http.Request, dst any) (bool, error) {
	if r.Body == nil {
		return false, nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return true, err
	}
	return true, nil
}
