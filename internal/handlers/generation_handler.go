package handlers

import (
	"net/http"

	"kidlanes/internal/service"
)

// GenerationHandler exposes the lane generation pipeline
type GenerationHandler struct {
	generationService *service.GenerationService
	profileService    *service.ProfileService
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generationService *service.GenerationService, profileService *service.ProfileService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		profileService:    profileService,
	}
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	MaxResultCount int    `json:"maxResultCount"`
}

// Generate handles POST /api/profiles/{id}/generate. It returns a candidate
// lane; nothing is stored until the parent confirms.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	profileID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := h.profileService.GetAccountProfile(account.ID, profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lane, err := h.generationService.GenerateLane(r.Context(), service.GenerateLaneRequest{
		Prompt:         req.Prompt,
		AgeBracket:     profile.AgeBracket,
		MaxResultCount: req.MaxResultCount,
		ProfileName:    profile.Name,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lane)
}
