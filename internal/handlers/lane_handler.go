package handlers

import (
	"net/http"

	"kidlanes/internal/models"
	"kidlanes/internal/service"
)

// LaneHandler handles parent-facing lane and item management
type LaneHandler struct {
	laneService    *service.LaneService
	profileService *service.ProfileService
}

// NewLaneHandler creates a new lane handler
func NewLaneHandler(laneService *service.LaneService, profileService *service.ProfileService) *LaneHandler {
	return &LaneHandler{
		laneService:    laneService,
		profileService: profileService,
	}
}

type createLaneRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type updateLaneRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
}

type reorderRequest struct {
	LaneIDs []int64 `json:"laneIds"`
}

type itemRequest struct {
	Kind            string `json:"kind"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoID         string `json:"videoId"`
	DurationSeconds int    `json:"durationSeconds"`
	Channel         string `json:"channel"`
	Thumbnail       string `json:"thumbnail"`
	URL             string `json:"url"`
	ImageURL        string `json:"imageUrl"`
}

func (req *itemRequest) toModel() models.LaneItem {
	return models.LaneItem{
		Kind:            models.ContentKind(req.Kind),
		Title:           req.Title,
		Description:     req.Description,
		VideoID:         req.VideoID,
		DurationSeconds: req.DurationSeconds,
		Channel:         req.Channel,
		Thumbnail:       req.Thumbnail,
		URL:             req.URL,
		ImageURL:        req.ImageURL,
	}
}

type confirmLaneRequest struct {
	GeneratedLane   models.GeneratedLane `json:"generatedLane"`
	SelectedIndexes []int                `json:"selectedIndexes"`
}

// ListForProfile handles GET /api/profiles/{id}/lanes
func (h *LaneHandler) ListForProfile(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	profileID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}
	if _, err := h.profileService.GetAccountProfile(account.ID, profileID); err != nil {
		respondServiceError(w, err)
		return
	}

	lanes, err := h.laneService.GetProfileLanes(profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	views := make([]laneView, 0, len(lanes))
	for i := range lanes {
		views = append(views, toLaneView(&lanes[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// Create handles POST /api/profiles/{id}/lanes
func (h *LaneHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	profileID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}
	if _, err := h.profileService.GetAccountProfile(account.ID, profileID); err != nil {
		respondServiceError(w, err)
		return
	}

	var req createLaneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lane, err := h.laneService.CreateLane(profileID, req.Name, req.Category)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toLaneView(lane))
}

// Reorder handles PUT /api/profiles/{id}/lanes/order
func (h *LaneHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	profileID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}
	if _, err := h.profileService.GetAccountProfile(account.ID, profileID); err != nil {
		respondServiceError(w, err)
		return
	}

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.laneService.ReorderLanes(account.ID, profileID, req.LaneIDs); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

// Get handles GET /api/lanes/{id}
func (h *LaneHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	laneID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid lane id")
		return
	}

	lane, err := h.laneService.GetLaneWithItems(account.ID, laneID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLaneWithItemsView(lane))
}

// Update handles PUT /api/lanes/{id}
func (h *LaneHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	laneID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid lane id")
		return
	}

	var req updateLaneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lane, err := h.laneService.UpdateLane(account.ID, laneID, req.Name, req.Category, req.Active)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLaneView(lane))
}

// Delete handles DELETE /api/lanes/{id}
func (h *LaneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	laneID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid lane id")
		return
	}

	if err := h.laneService.DeleteLane(account.ID, laneID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddItem handles POST /api/lanes/{id}/items
func (h *LaneHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	laneID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid lane id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.laneService.AddItem(account.ID, laneID, req.toModel())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toItemView(item))
}

// UpdateItem handles PUT /api/items/{id}
func (h *LaneHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	itemID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.laneService.UpdateItem(account.ID, itemID, req.toModel())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemView(item))
}

// DeleteItem handles DELETE /api/items/{id}
func (h *LaneHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	itemID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.laneService.DeleteItem(account.ID, itemID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Confirm handles POST /api/profiles/{id}/lanes/confirm. It persists a
// generated candidate lane the parent has reviewed.
func (h *LaneHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	profileID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}
	if _, err := h.profileService.GetAccountProfile(account.ID, profileID); err != nil {
		respondServiceError(w, err)
		return
	}

	var req confirmLaneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lane, err := h.laneService.ConfirmGeneratedLane(profileID, &req.GeneratedLane, req.SelectedIndexes)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toLaneWithItemsView(lane))
}
