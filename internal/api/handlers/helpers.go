package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into v and validates it.
// It writes the error response itself and reports whether the caller may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, val *validator.Validator, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && err != io.EOF {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}

	if errs := val.Validate(v); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return false
	}
	return true
}

// queryBool parses a boolean query parameter, defaulting to false
func queryBool(r *http.Request, name string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && b
}
