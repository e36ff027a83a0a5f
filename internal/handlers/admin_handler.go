package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eventlane/auth-service/internal/models"
	"github.com/eventlane/auth-service/libs/auth/middleware"
	"github.com/eventlane/auth-service/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for account lifecycle operations
type AdminService interface {
	// Method ListAccounts gets a list of accounts with pagination, role and search filters.
	//
	// "page" parameter is used to specify the page number.
	// "count" parameter is used to specify the number of items per page.
	// "role" parameter is used to filter accounts by role.
	// "search" parameter is used to search accounts by email.
	ListAccounts(ctx context.Context, page, count int, role *models.Role, search string) ([]models.AccountListItem, error)
	// Method ChangeRole sets the target account's role. Demoting the last
	// remaining admin is rejected.
	ChangeRole(ctx context.Context, targetID string, newRole models.Role) error
	// Method ChangeStatus sets the target account's status.
	ChangeStatus(ctx context.Context, targetID string, status models.Status) error
	// Method DeleteAccount deletes the target account. Self-deletion and
	// deleting the last remaining admin are rejected.
	DeleteAccount(ctx context.Context, targetID, callerID string) error
	// Method AdminCount reports how many admin accounts exist.
	AdminCount(ctx context.Context) (int, error)
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	handlers.BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes
// Note: This assumes the router is already scoped to /api/v1 and wrapped in
// the admin-tier middleware
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Get("/stats", h.Stats)
		r.Patch("/accounts/{id}/role", h.ChangeRole)
		r.Patch("/accounts/{id}/status", h.ChangeStatus)
		r.Delete("/accounts/{id}", h.DeleteAccount)
	})
}

// ListAccounts handles GET /admin/accounts
// @Summary Get list of accounts
// @Description Get paginated list of accounts with optional role and search filters
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Param role query string false "Filter by role (USER, ORGANIZER, ADMIN)"
// @Param search query string false "Search in email"
// @Success 200 {array} models.AccountListItem "List of accounts"
// @Failure 400 {object} map[string]string "Invalid role filter"
// @Failure 401 {object} map[string]string "Missing, invalid, or expired token"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/accounts [get]
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	page := 1
	count := 20

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if c, err := strconv.Atoi(countStr); err == nil && c > 0 {
			count = c
		}
	}

	var role *models.Role
	if roleStr := r.URL.Query().Get("role"); roleStr != "" {
		parsed, err := models.ParseRole(roleStr)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		role = &parsed
	}

	search := r.URL.Query().Get("search")

	accounts, err := h.adminService.ListAccounts(r.Context(), page, count, role, search)
	if err != nil {
		h.Logger.Error("failed to list accounts", zap.Error(err))
		status, message := statusFromError(err)
		h.RespondError(w, status, message)
		return
	}

	if accounts == nil {
		accounts = []models.AccountListItem{}
	}
	h.RespondJSON(w, http.StatusOK, accounts)
}

// Stats handles GET /admin/stats
// @Summary Admin console overview
// @Description Returns counts for the admin console, currently the number of admin accounts.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]int "Counts"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.AdminCount(r.Context())
	if err != nil {
		h.Logger.Error("failed to count admins", zap.Error(err))
		status, message := statusFromError(err)
		h.RespondError(w, status, message)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]int{"admins": admins})
}

// ChangeRole handles PATCH /admin/accounts/{id}/role
// @Summary Change an account's role
// @Description Set the target account's role. Promotion to ADMIN is unconditional; demoting the last remaining admin is rejected.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Account ID"
// @Param request body models.ChangeRoleRequest true "Role change request"
// @Success 200 {object} map[string]string "Role changed"
// @Failure 400 {object} map[string]string "Invalid role or last-admin demotion"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/accounts/{id}/role [patch]
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var req models.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.ChangeRole(r.Context(), targetID, role); err != nil {
		h.Logger.Error("failed to change account role", zap.Error(err), zap.String("target_id", targetID))
		status, message := statusFromError(err)
		h.RespondError(w, status, message)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "role changed successfully"})
}

// ChangeStatus handles PATCH /admin/accounts/{id}/status
// @Summary Change an account's status
// @Description Set the target account's status to ACTIVE or SUSPENDED. Status does not affect authentication.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Account ID"
// @Param request body models.ChangeStatusRequest true "Status change request"
// @Success 200 {object} map[string]string "Status changed"
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/accounts/{id}/status [patch]
func (h *AdminHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.ChangeStatus(r.Context(), targetID, status); err != nil {
		h.Logger.Error("failed to change account status", zap.Error(err), zap.String("target_id", targetID))
		httpStatus, message := statusFromError(err)
		h.RespondError(w, httpStatus, message)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "status changed successfully"})
}

// DeleteAccount handles DELETE /admin/accounts/{id}
// @Summary Delete an account
// @Description Delete the target account. Self-deletion and deleting the last remaining admin are rejected.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]string "Account deleted"
// @Failure 400 {object} map[string]string "Self-deletion or last-admin deletion"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	caller, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.adminService.DeleteAccount(r.Context(), targetID, caller.ID); err != nil {
		h.Logger.Error("failed to delete account", zap.Error(err), zap.String("target_id", targetID))
		status, message := statusFromError(err)
		h.RespondError(w, status, message)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "account deleted successfully"})
}
