package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
)

type ClientHandler struct {
	DB *gorm.DB
}

func (h *ClientHandler) Get(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var profile models.ClientProfile
	if err := h.DB.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}

	if err := auth.Check(p, auth.OwnerOrAdmin(profile.UserID)); err != nil {
		return authmw.Deny(err)
	}
	return c.JSON(http.StatusOK, profile)
}

type updateClientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	City      *string `json:"city"`
}

func (h *ClientHandler) Update(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var profile models.ClientProfile
	if err := h.DB.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}
	if err := auth.Check(p, auth.OwnerOrAdmin(profile.UserID)); err != nil {
		return authmw.Deny(err)
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.City != nil {
		profile.City = *req.City
	}

	if err := h.DB.Save(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, profile)
}
