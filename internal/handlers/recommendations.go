package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
)

type RecommendationHandler struct {
	DB *gorm.DB
}

type createRecommendationRequest struct {
	ArtisanID string `json:"artisan_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *RecommendationHandler) Create(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	if err := auth.Check(p, auth.RoleExactly(models.RoleClient)); err != nil {
		return authmw.Deny(err)
	}

	var req createRecommendationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var client models.ClientProfile
	if err := h.DB.Where("user_id = ?", p.ID).First(&client).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client profile not found")
	}
	var artisan models.ArtisanProfile
	if err := h.DB.Where("id = ?", req.ArtisanID).First(&artisan).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "artisan not found")
	}

	rec := models.Recommendation{
		ID:        uuid.NewString(),
		ClientID:  client.ID,
		ArtisanID: artisan.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *RecommendationHandler) ListForArtisan(c echo.Context) error {
	var recs []models.Recommendation
	err := h.DB.Where("artisan_id = ?", c.Param("id")).Order("created_at desc").Find(&recs).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, recs)
}
