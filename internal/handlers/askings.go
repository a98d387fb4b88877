package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/events"
	"github.com/atelierlocal/backend/internal/logging"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
)

type AskingHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type createAskingRequest struct {
	ArtisanID   string `json:"artisan_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *AskingHandler) Create(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	if err := auth.Check(p, auth.RoleExactly(models.RoleClient)); err != nil {
		return authmw.Deny(err)
	}

	var req createAskingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.ArtisanID == "" || req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "artisan_id and title are required")
	}

	client, err := h.clientProfile(p)
	if err != nil {
		return err
	}
	var artisan models.ArtisanProfile
	if err := h.DB.Where("id = ?", req.ArtisanID).First(&artisan).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "artisan not found")
	}

	asking := models.Asking{
		ID:          uuid.NewString(),
		ClientID:    client.ID,
		ArtisanID:   artisan.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.AskingPending,
	}
	if err := h.DB.Create(&asking).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	ctx := c.Request().Context()
	event := map[string]interface{}{
		"type":       "asking_created",
		"asking_id":  asking.ID,
		"client_id":  asking.ClientID,
		"artisan_id": asking.ArtisanID,
	}
	if err := h.Producer.PublishEvent(ctx, "asking_events", asking.ID, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}

	return c.JSON(http.StatusCreated, asking)
}

func (h *AskingHandler) ListMine(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var askings []models.Asking
	switch p.Role {
	case models.RoleClient:
		client, err := h.clientProfile(p)
		if err != nil {
			return err
		}
		err2 := h.DB.Where("client_id = ?", client.ID).Order("created_at desc").Find(&askings).Error
		if err2 != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err2)
		}
	case models.RoleArtisan:
		artisan, err := h.artisanProfile(p)
		if err != nil {
			return err
		}
		err2 := h.DB.Where("artisan_id = ?", artisan.ID).Order("created_at desc").Find(&askings).Error
		if err2 != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err2)
		}
	default:
		if err := h.DB.Order("created_at desc").Find(&askings).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
	}
	return c.JSON(http.StatusOK, askings)
}

func (h *AskingHandler) Get(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var asking models.Asking
	if err := h.DB.Where("id = ?", c.Param("id")).First(&asking).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "asking not found")
	}

	ownerIDs, err := h.participantUserIDs(asking)
	if err != nil {
		return err
	}
	allowed := p.Role == models.RoleAdmin
	for _, id := range ownerIDs {
		if p.ID == id {
			allowed = true
		}
	}
	if !allowed {
		return authmw.Deny(fmt.Errorf("%w: not a participant", auth.ErrAccessDenied))
	}
	return c.JSON(http.StatusOK, asking)
}

type updateAskingStatusRequest struct {
	Status string `json:"status"`
}

func (h *AskingHandler) UpdateStatus(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	if err := auth.Check(p, auth.RoleExactly(models.RoleArtisan)); err != nil {
		return authmw.Deny(err)
	}

	var asking models.Asking
	if err := h.DB.Where("id = ?", c.Param("id")).First(&asking).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "asking not found")
	}

	artisan, err := h.artisanProfile(p)
	if err != nil {
		return err
	}
	if asking.ArtisanID != artisan.ID {
		return authmw.Deny(fmt.Errorf("%w: not the assigned artisan", auth.ErrAccessDenied))
	}

	var req updateAskingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if !validTransition(asking.Status, req.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status transition")
	}

	asking.Status = req.Status
	if err := h.DB.Save(&asking).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, asking)
}

func validTransition(from, to string) bool {
	switch from {
	case models.AskingPending:
		return to == models.AskingAccepted || to == models.AskingDeclined
	case models.AskingAccepted:
		return to == models.AskingDone
	}
	return false
}

func (h *AskingHandler) clientProfile(p auth.Principal) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	if err := h.DB.Where("user_id = ?", p.ID).First(&profile).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "client profile not found")
	}
	return &profile, nil
}

func (h *AskingHandler) artisanProfile(p auth.Principal) (*models.ArtisanProfile, error) {
	var profile models.ArtisanProfile
	if err := h.DB.Where("user_id = ?", p.ID).First(&profile).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "artisan profile not found")
	}
	return &profile, nil
}

func (h *AskingHandler) participantUserIDs(asking models.Asking) ([]string, error) {
	var client models.ClientProfile
	var artisan models.ArtisanProfile
	ids := make([]string, 0, 2)
	if err := h.DB.Where("id = ?", asking.ClientID).First(&client).Error; err == nil {
		ids = append(ids, client.UserID)
	}
	if err := h.DB.Where("id = ?", asking.ArtisanID).First(&artisan).Error; err == nil {
		ids = append(ids, artisan.UserID)
	}
	return ids, nil
}
