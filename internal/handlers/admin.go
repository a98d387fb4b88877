package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/models"
)

// AdminHandler routes are mounted behind an admin-only requirement.
type AdminHandler struct {
	DB *gorm.DB
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Order("created_at").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeactivateUser bans an account. Existing tokens stop binding a principal
// on the next request because the middleware refuses inactive accounts.
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
	result := h.DB.Model(&models.User{}).
		Where("id = ?", c.Param("id")).
		Update("active", false)
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error)
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}
