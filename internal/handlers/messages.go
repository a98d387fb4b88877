package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
)

type MessageHandler struct {
	DB *gorm.DB
}

// History returns the conversation between the caller and :peer (an email),
// oldest first. Only a participant can see it; the caller is one by
// construction.
func (h *MessageHandler) History(c echo.Context) error {
	p, err := authmw.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	peer := c.Param("peer")
	if peer == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "peer is required")
	}

	var messages []models.Message
	err = h.DB.
		Where("(sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)",
			p.Email, peer, peer, p.Email).
		Order("sent_at").
		Find(&messages).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, messages)
}
