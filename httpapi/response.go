// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/poiesic/stallbook/catalog"
	"github.com/poiesic/stallbook/core"
	"github.com/poiesic/stallbook/storage"
)

// dataEnvelope wraps a successful response body.
type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope wraps a failed response body.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON serializes payload to JSON with status and logs on failure.
func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func ok(logger *slog.Logger, w http.ResponseWriter, data any) {
	writeJSON(logger, w, http.StatusOK, dataEnvelope{Success: true, Data: data})
}

func fail(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	writeJSON(logger, w, status, errorEnvelope{Success: false, Error: message})
}

// writeError maps a service error to a status code and a client-safe message.
// Unexpected errors are logged and reported with a generic message.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidationFailed):
		fail(logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrInvalidCredentials):
		fail(logger, w, http.StatusBadRequest, "Invalid username or password")
	case errors.Is(err, catalog.ErrMenuItemNotFound):
		fail(logger, w, http.StatusNotFound, "Menu item not found")
	case errors.Is(err, catalog.ErrStallNotFound):
		fail(logger, w, http.StatusNotFound, "Stall not found")
	case errors.Is(err, storage.ErrNotFound):
		fail(logger, w, http.StatusNotFound, "Not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		fail(logger, w, http.StatusConflict, "Already exists")
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		fail(logger, w, http.StatusInternalServerError, "Internal server error")
	}
}
