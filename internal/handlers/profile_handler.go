package handlers

import (
	"net/http"
	"strconv"

	"kidlanes/internal/models"
	"kidlanes/internal/service"
)

// ProfileHandler handles parent-facing profile management
type ProfileHandler struct {
	profileService *service.ProfileService
	badgeService   *service.BadgeService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService, badgeService *service.BadgeService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		badgeService:   badgeService,
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

type createProfileRequest struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	AgeBracket  string `json:"ageBracket"`
	AvatarColor string `json:"avatarColor"`
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	AgeBracket  string `json:"ageBracket"`
	AvatarColor string `json:"avatarColor"`
}

type profileCreatedResponse struct {
	Profile profileView `json:"profile"`
	PIN     string      `json:"pin,omitempty"`
}

// List handles GET /api/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	profiles, err := h.profileService.ListProfiles(account.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]profileView, 0, len(profiles))
	for i := range profiles {
		views = append(views, toProfileView(&profiles[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// Create handles POST /api/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleChild
	}

	profile, pin, err := h.profileService.CreateProfile(account.ID, req.Name, role, models.AgeBracket(req.AgeBracket), req.AvatarColor)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, profileCreatedResponse{Profile: toProfileView(profile), PIN: pin})
}

// Get handles GET /api/profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := h.profileService.GetAccountProfile(account.ID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProfileView(profile))
}

// Update handles PUT /api/profiles/{id}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profileService.UpdateProfile(account.ID, id, req.Name, models.AgeBracket(req.AgeBracket), req.AvatarColor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProfileView(profile))
}

// Delete handles DELETE /api/profiles/{id}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	if err := h.profileService.DeleteProfile(account.ID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RotatePIN handles POST /api/profiles/{id}/pin
func (h *ProfileHandler) RotatePIN(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	pin, err := h.profileService.RotatePIN(account.ID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"pin": pin})
}

// Stats handles GET /api/profiles/{id}/stats
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	stats, err := h.profileService.GetProfileStats(account.ID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profile":        toProfileView(&stats.Profile),
		"laneCount":      stats.LaneCount,
		"completedCount": stats.CompletedCount,
		"badgeCount":     stats.BadgeCount,
	})
}

// Badges handles GET /api/profiles/{id}/badges
func (h *ProfileHandler) Badges(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	if _, err := h.profileService.GetAccountProfile(account.ID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	badges, err := h.badgeService.GetProfileBadges(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBadgeViews(badges))
}
