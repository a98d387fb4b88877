package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/logging"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
	"github.com/atelierlocal/backend/internal/search"
)

type ArtisanHandler struct {
	DB    *gorm.DB
	Index *search.Index
}

func (h *ArtisanHandler) List(c echo.Context) error {
	var profiles []models.ArtisanProfile
	q := h.DB.Order("company_name")
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if city := c.QueryParam("city"); city != "" {
		q = q.Where("city = ?", city)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *ArtisanHandler) Get(c echo.Context) error {
	var profile models.ArtisanProfile
	if err := h.DB.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "artisan not found")
	}
	return c.JSON(http.StatusOK, profile)
}

type updateArtisanRequest struct {
	CompanyName *string `json:"company_name"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	City        *string `json:"city"`
	Phone       *string `json:"phone"`
}

func (h *ArtisanHandler) Update(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var profile models.ArtisanProfile
	if err := h.DB.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "artisan not found")
	}
	if err := auth.Check(p, auth.OwnerOrAdmin(profile.UserID)); err != nil {
		return authmw.Deny(err)
	}

	var req updateArtisanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.CategoryID != nil {
		profile.CategoryID = *req.CategoryID
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}

	if err := h.DB.Save(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	indexArtisanProfile(c, h.DB, h.Index, profile)
	return c.JSON(http.StatusOK, profile)
}

// indexArtisanProfile pushes the profile into the search index. Failures are
// logged, never surfaced to the caller.
func indexArtisanProfile(c echo.Context, db *gorm.DB, index *search.Index, profile models.ArtisanProfile) {
	ctx := c.Request().Context()

	var category models.Category
	if profile.CategoryID != "" {
		db.Where("id = ?", profile.CategoryID).First(&category)
	}

	doc := search.ArtisanDoc{
		ID:          profile.ID,
		CompanyName: profile.CompanyName,
		Description: profile.Description,
		City:        profile.City,
		Category:    category.Name,
	}
	if err := index.IndexArtisan(ctx, doc); err != nil {
		logging.FromContext(ctx).Error("artisan indexing failed", "artisan_id", profile.ID, "error", err)
	}
}
