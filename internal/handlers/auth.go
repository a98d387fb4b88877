package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/events"
	"github.com/atelierlocal/backend/internal/logging"
	"github.com/atelierlocal/backend/internal/models"
	"github.com/atelierlocal/backend/internal/search"
)

type AuthHandler struct {
	DB         *gorm.DB
	Codec      *auth.TokenCodec
	Revoked    auth.RevocationStore
	HashParams auth.PasswordParams
	Producer   *events.Producer
	Index      *search.Index
	CookieName string
}

func CreateCookie(name string, value string, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) cookieName() string {
	if h.CookieName != "" {
		return h.CookieName
	}
	return "jwt"
}

type registerClientRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	City      string `json:"city"`
}

func (h *AuthHandler) RegisterClient(c echo.Context) error {
	var req registerClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := h.createUser(c, req.Email, req.Password, models.RoleClient)
	if err != nil {
		return err
	}

	profile := models.ClientProfile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		City:      req.City,
	}
	if err := h.DB.Create(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, "user_registered", user)
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "profile": profile})
}

type registerArtisanRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
}

func (h *AuthHandler) RegisterArtisan(c echo.Context) error {
	var req registerArtisanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and company_name are required")
	}

	user, err := h.createUser(c, req.Email, req.Password, models.RoleArtisan)
	if err != nil {
		return err
	}

	profile := models.ArtisanProfile{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		CompanyName: req.CompanyName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		City:        req.City,
		Phone:       req.Phone,
	}
	if err := h.DB.Create(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	indexArtisanProfile(c, h.DB, h.Index, profile)
	h.publish(c, "user_registered", user)
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "profile": profile})
}

func (h *AuthHandler) createUser(c echo.Context, email, password, role string) (*models.User, error) {
	var existing models.User
	err := h.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	hash, err := auth.HashPassword(password, h.HashParams)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return &user, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !user.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.Codec.Issue(user.Email, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	c.SetCookie(CreateCookie(h.cookieName(), token, "/", time.Now().Add(h.Codec.TTL)))

	h.publish(c, "user_logged_in", &user)
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"role":  user.Role,
	})
}

// Logout revokes the bearer token from the Authorization header. The token
// stays rejected until its natural expiry even though the cookie is cleared.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := auth.ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.Revoked.Revoke(token)

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie(h.cookieName(), "", "/", expired))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) publish(c echo.Context, eventType string, user *models.User) {
	event := map[string]interface{}{
		"type":    eventType,
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	}
	ctx := c.Request().Context()
	if err := h.Producer.PublishEvent(ctx, "user_events", user.ID, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
