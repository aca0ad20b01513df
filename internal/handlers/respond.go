package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kidlanes/internal/genai"
	"kidlanes/internal/service"
	"kidlanes/internal/validation"
	"kidlanes/internal/youtube"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps known service errors onto HTTP statuses and
// hides everything else behind a generic 500
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	var parseErr *genai.ParseError
	var genErr *genai.APIError
	var ytErr *youtube.APIError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidPIN):
		respondError(w, http.StatusUnauthorized, "invalid pin")
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		respondError(w, http.StatusUnauthorized, "not signed in")
	case errors.Is(err, service.ErrNotAuthorized):
		respondError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, service.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, service.ErrLaneNotFound):
		respondError(w, http.StatusNotFound, "lane not found")
	case errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item not found")
	case errors.As(err, &parseErr):
		log.Printf("generation returned unparseable output: %v", err)
		respondError(w, http.StatusBadGateway, "the generation service returned an unusable response, please try again")
	case errors.As(err, &genErr), errors.As(err, &ytErr):
		log.Printf("upstream service error: %v", err)
		respondError(w, http.StatusBadGateway, "an upstream service is unavailable, please try again")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
