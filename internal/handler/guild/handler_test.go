package guild

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/middleware"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

type fakeGuildService struct {
	setErr  error
	getResp *model.GuildSettings
	getErr  error

	gotGuildID   string
	gotChannelID string
}

func (f *fakeGuildService) SetChannel(ctx context.Context, guildID, channelID string) error {
	f.gotGuildID = guildID
	f.gotChannelID = channelID
	return f.setErr
}

func (f *fakeGuildService) GetChannel(ctx context.Context, guildID string) (*model.GuildSettings, error) {
	f.gotGuildID = guildID
	return f.getResp, f.getErr
}

func setupRouter(svc *fakeGuildService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestSetChannelEndpoint(t *testing.T) {
	svc := &fakeGuildService{}
	r := setupRouter(svc)

	body, _ := json.Marshal(gin.H{"channel_id": "chan-42"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/guilds/g1/channel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g1", svc.gotGuildID)
	assert.Equal(t, "chan-42", svc.gotChannelID)
}

func TestSetChannelEndpointMissingChannel(t *testing.T) {
	svc := &fakeGuildService{}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/guilds/g1/channel", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChannelEndpoint(t *testing.T) {
	svc := &fakeGuildService{
		getResp: &model.GuildSettings{
			GuildID:   "g1",
			ChannelID: "chan-42",
			UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/guilds/g1/channel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data *model.GuildSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "chan-42", resp.Data.ChannelID)
}

func TestGetChannelEndpointUnconfigured(t *testing.T) {
	svc := &fakeGuildService{getErr: errors.DestinationUnresolvable("g1")}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/guilds/g1/channel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
