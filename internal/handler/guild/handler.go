package guild

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/handler"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

type guildService interface {
	SetChannel(ctx context.Context, guildID, channelID string) error
	GetChannel(ctx context.Context, guildID string) (*model.GuildSettings, error)
}

type Handler struct {
	service guildService
}

func NewHandler(service guildService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	guilds := rg.Group("/guilds/:guild_id")
	guilds.PUT("/channel", h.SetChannel)
	guilds.GET("/channel", h.GetChannel)
}

func (h *Handler) SetChannel(c *gin.Context) {
	var req model.SetChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	guildID := c.Param("guild_id")
	if err := h.service.SetChannel(c.Request.Context(), guildID, req.ChannelID); err != nil {
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"guild_id":   guildID,
		"channel_id": req.ChannelID,
	}))
}

func (h *Handler) GetChannel(c *gin.Context) {
	settings, err := h.service.GetChannel(c.Request.Context(), c.Param("guild_id"))
	if err != nil {
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
