package event

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/handler"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

type eventService interface {
	CreateEvent(ctx context.Context, guildID string, req *model.CreateEventRequest) (*model.CreateEventResponse, error)
	ListEvents(ctx context.Context, guildID string) ([]model.Event, error)
	DeleteEvent(ctx context.Context, guildID string, id int64) error
	EditEvent(ctx context.Context, guildID string, id int64, req *model.CreateEventRequest) (*model.CreateEventResponse, error)
	CheckConflicts(ctx context.Context, guildID string, req *model.ConflictCheckRequest) ([]model.Event, error)
}

type Handler struct {
	service eventService
}

func NewHandler(service eventService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/guilds/:guild_id/events")
	events.POST("", h.CreateEvent)
	events.GET("", h.ListEvents)
	events.POST("/conflicts", h.CheckConflicts)
	events.PUT("/:id", h.EditEvent)
	events.DELETE("/:id", h.DeleteEvent)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.CreateEvent(c.Request.Context(), c.Param("guild_id"), &req)
	if err != nil {
		// A partial series still reports the records it created.
		if resp != nil && len(resp.Events) > 0 {
			c.JSON(http.StatusInternalServerError, &handler.Response{
				Status:  "partial",
				Message: err.Error(),
				Data:    resp,
			})
			return
		}
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(resp))
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context(), c.Param("guild_id"))
	if err != nil {
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}

func (h *Handler) CheckConflicts(c *gin.Context) {
	var req model.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	conflicts, err := h.service.CheckConflicts(c.Request.Context(), c.Param("guild_id"), &req)
	if err != nil {
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(conflicts))
}

func (h *Handler) EditEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event id"))
		return
	}

	var req model.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.EditEvent(c.Request.Context(), c.Param("guild_id"), id, &req)
	if err != nil {
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid event id"))
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), c.Param("guild_id"), id); err != nil {
		c.Error(err) //nolint:errcheck
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}
