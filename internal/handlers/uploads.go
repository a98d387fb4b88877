package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
	"github.com/atelierlocal/backend/internal/storage"
)

type UploadHandler struct {
	DB    *gorm.DB
	Store storage.Store
}

// Avatar stores the uploaded file and records its key on the caller's
// profile (client or artisan).
func (h *UploadHandler) Avatar(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	if h.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "uploads are not configured")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	defer src.Close()

	key := storage.AvatarKey(p.ID)
	ctx := c.Request().Context()
	if err := h.Store.Put(ctx, key, src, file.Header.Get("Content-Type")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	switch p.Role {
	case models.RoleClient:
		err = h.DB.Model(&models.ClientProfile{}).Where("user_id = ?", p.ID).
			Update("avatar_key", key).Error
	case models.RoleArtisan:
		err = h.DB.Model(&models.ArtisanProfile{}).Where("user_id = ?", p.ID).
			Update("avatar_key", key).Error
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	url, err := h.Store.PresignGet(ctx, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"key": key, "url": url})
}

// AskingPhoto attaches a photo to an asking. Only the client who opened the
// asking (or an admin) may add photos.
func (h *UploadHandler) AskingPhoto(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	if h.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "uploads are not configured")
	}

	var asking models.Asking
	if err := h.DB.Where("id = ?", c.Param("id")).First(&asking).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "asking not found")
	}

	var client models.ClientProfile
	ownerUserID := ""
	if err := h.DB.Where("id = ?", asking.ClientID).First(&client).Error; err == nil {
		ownerUserID = client.UserID
	}
	if err := auth.Check(p, auth.OwnerOrAdmin(ownerUserID)); err != nil {
		return authmw.Deny(err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	defer src.Close()

	key := storage.AskingPhotoKey(asking.ID)
	ctx := c.Request().Context()
	if err := h.Store.Put(ctx, key, src, file.Header.Get("Content-Type")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if asking.PhotoKeys == "" {
		asking.PhotoKeys = key
	} else {
		asking.PhotoKeys = fmt.Sprintf("%s,%s", asking.PhotoKeys, key)
	}
	if err := h.DB.Save(&asking).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	url, err := h.Store.PresignGet(ctx, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"key":    key,
		"url":    url,
		"photos": strings.Split(asking.PhotoKeys, ","),
	})
}
