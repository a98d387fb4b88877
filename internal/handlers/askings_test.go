package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/models"
)

type marketplaceFixture struct {
	db             *gorm.DB
	client         models.User
	clientProfile  models.ClientProfile
	artisan        models.User
	artisanProfile models.ArtisanProfile
}

func newMarketplaceFixture(t *testing.T) *marketplaceFixture {
	db := initTestDB(t)

	client := models.User{ID: uuid.NewString(), Email: "client@x.com", PasswordHash: "h", Role: models.RoleClient, Active: true}
	artisan := models.User{ID: uuid.NewString(), Email: "artisan@x.com", PasswordHash: "h", Role: models.RoleArtisan, Active: true}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&artisan).Error)

	clientProfile := models.ClientProfile{ID: uuid.NewString(), UserID: client.ID, FirstName: "Anne"}
	artisanProfile := models.ArtisanProfile{ID: uuid.NewString(), UserID: artisan.ID, CompanyName: "Atelier Bois"}
	require.NoError(t, db.Create(&clientProfile).Error)
	require.NoError(t, db.Create(&artisanProfile).Error)

	return &marketplaceFixture{
		db:             db,
		client:         client,
		clientProfile:  clientProfile,
		artisan:        artisan,
		artisanProfile: artisanProfile,
	}
}

func asPrincipal(req *http.Request, user models.User) *http.Request {
	p := auth.Principal{ID: user.ID, Email: user.Email, Role: user.Role, Active: true}
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), p))
}

func TestCreateAsking(t *testing.T) {
	fx := newMarketplaceFixture(t)
	h := &AskingHandler{DB: fx.db}

	req := jsonRequest(t, http.MethodPost, "/api/v1/askings", map[string]string{
		"artisan_id":  fx.artisanProfile.ID,
		"title":       "Repair oak table",
		"description": "One leg is loose",
	})
	req = asPrincipal(req, fx.client)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var asking models.Asking
	require.NoError(t, fx.db.Where("client_id = ?", fx.clientProfile.ID).First(&asking).Error)
	require.Equal(t, models.AskingPending, asking.Status)
	require.Equal(t, fx.artisanProfile.ID, asking.ArtisanID)
}

func TestCreateAskingRequiresClientRole(t *testing.T) {
	fx := newMarketplaceFixture(t)
	h := &AskingHandler{DB: fx.db}

	req := jsonRequest(t, http.MethodPost, "/api/v1/askings", map[string]string{
		"artisan_id": fx.artisanProfile.ID,
		"title":      "Self-request",
	})
	req = asPrincipal(req, fx.artisan)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestCreateAskingRequiresAuthentication(t *testing.T) {
	fx := newMarketplaceFixture(t)
	h := &AskingHandler{DB: fx.db}

	req := jsonRequest(t, http.MethodPost, "/api/v1/askings", map[string]string{
		"artisan_id": fx.artisanProfile.ID,
		"title":      "Anonymous",
	})
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func createAsking(t *testing.T, fx *marketplaceFixture, status string) models.Asking {
	asking := models.Asking{
		ID:        uuid.NewString(),
		ClientID:  fx.clientProfile.ID,
		ArtisanID: fx.artisanProfile.ID,
		Title:     "Repair oak table",
		Status:    status,
	}
	require.NoError(t, fx.db.Create(&asking).Error)
	return asking
}

func TestUpdateAskingStatus(t *testing.T) {
	fx := newMarketplaceFixture(t)
	h := &AskingHandler{DB: fx.db}
	asking := createAsking(t, fx, models.AskingPending)

	req := jsonRequest(t, http.MethodPatch, "/api/v1/askings/"+asking.ID+"/status", map[string]string{
		"status": models.AskingAccepted,
	})
	req = asPrincipal(req, fx.artisan)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(asking.ID)

	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Asking
	require.NoError(t, fx.db.Where("id = ?", asking.ID).First(&updated).Error)
	require.Equal(t, models.AskingAccepted, updated.Status)
}

func TestUpdateAskingStatusInvalidTransition(t *testing.T) {
	fx := newMarketplaceFixture(t)
	h := &AskingHandler{DB: fx.db}
	asking := createAsking(t, fx, models.AskingDeclined)

	req := jsonRequest(t, http.MethodPatch, "/api/v1/askings/"+asking.ID+"/status", map[string]string{
		"status": models.AskingDone,
	})
	req = asPrincipal(req, fx.artisan)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(asking.ID)

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetAskingParticipantsOnly(t *testing.T) {
	fx := newMarketplaceFixture(t)
	h := &AskingHandler{DB: fx.db}
	asking := createAsking(t, fx, models.AskingPending)

	stranger := models.User{ID: uuid.NewString(), Email: "other@x.com", PasswordHash: "h", Role: models.RoleClient, Active: true}
	require.NoError(t, fx.db.Create(&stranger).Error)

	e := echo.New()

	for _, user := range []models.User{fx.client, fx.artisan} {
		req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/askings/"+asking.ID, nil), user)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(asking.ID)
		require.NoError(t, h.Get(c), "participant %s must see the asking", user.Email)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/askings/"+asking.ID, nil), stranger)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(asking.ID)
	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}
