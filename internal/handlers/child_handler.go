package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"kidlanes/internal/models"
	"kidlanes/internal/repository"
	"kidlanes/internal/service"
)

// ChildHandler handles the child-facing API surface
type ChildHandler struct {
	authService     *service.AuthService
	laneService     *service.LaneService
	progressService *service.ProgressService
	badgeService    *service.BadgeService
	emailService    *service.EmailService
	profileService  *service.ProfileService
	accountRepo     *repository.AccountRepository
}

// NewChildHandler creates a new child handler
func NewChildHandler(authService *service.AuthService, laneService *service.LaneService, progressService *service.ProgressService, badgeService *service.BadgeService, emailService *service.EmailService, profileService *service.ProfileService, accountRepo *repository.AccountRepository) *ChildHandler {
	return &ChildHandler{
		authService:     authService,
		laneService:     laneService,
		progressService: progressService,
		badgeService:    badgeService,
		emailService:    emailService,
		profileService:  profileService,
		accountRepo:     accountRepo,
	}
}

type childLoginRequest struct {
	ProfileID int64  `json:"profileId"`
	PIN       string `json:"pin"`
}

type childLoginResponse struct {
	Token   string      `json:"token"`
	Profile profileView `json:"profile"`
}

// Login handles POST /api/child/login
func (h *ChildHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req childLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, profile, err := h.authService.ChildLogin(req.ProfileID, req.PIN)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, childLoginResponse{Token: token, Profile: toProfileView(profile)})
}

// Lanes handles GET /api/child/lanes
func (h *ChildHandler) Lanes(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	lanes, err := h.laneService.GetChildLanes(profile.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]laneWithItemsView, 0, len(lanes))
	for i := range lanes {
		views = append(views, toLaneWithItemsView(&lanes[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// Badges handles GET /api/child/badges
func (h *ChildHandler) Badges(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	badges, err := h.badgeService.GetProfileBadges(profile.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBadgeViews(badges))
}

type progressRequest struct {
	LaneID   int64   `json:"laneId"`
	ItemID   int64   `json:"itemId"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

type progressResponse struct {
	Record         *watchView  `json:"record,omitempty"`
	NewlyCompleted bool        `json:"newlyCompleted"`
	NewBadges      []badgeView `json:"newBadges"`
}

// Progress handles POST /api/child/progress. Badge evaluation runs only
// when this sample completes the item; badge and email failures are logged
// and never fail the progress write.
func (h *ChildHandler) Progress(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.laneService.GetChildItem(profile.ID, req.LaneID, req.ItemID); err != nil {
		respondServiceError(w, err)
		return
	}

	record, newlyCompleted, err := h.progressService.RecordProgress(profile.ID, req.LaneID, req.ItemID, req.Position, req.Duration)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := progressResponse{NewlyCompleted: newlyCompleted, NewBadges: []badgeView{}}
	if record != nil {
		view := toWatchView(record)
		resp.Record = &view
	}

	if newlyCompleted {
		newBadges, err := h.badgeService.Evaluate(profile.ID)
		if err != nil {
			log.Printf("badge evaluation failed for profile %d: %v", profile.ID, err)
		}
		if len(newBadges) > 0 {
			resp.NewBadges = toBadgeViews(newBadges)
			h.notifyParent(profile, newBadges)
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// notifyParent emails the owning parent about new badges, best effort
func (h *ChildHandler) notifyParent(profile *models.Profile, badges []models.EarnedBadge) {
	if !h.emailService.IsEnabled() {
		return
	}

	account, err := h.accountRepo.GetAccountByID(profile.AccountID)
	if err != nil || account == nil {
		log.Printf("failed to load account %d for badge email: %v", profile.AccountID, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.emailService.SendBadgeEmail(ctx, account.Email, account.Name, profile.Name, badges); err != nil {
			log.Printf("failed to send badge email to %s: %v", account.Email, err)
		}
	}()
}
