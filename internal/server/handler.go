package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthlink/hearth/internal/fireplace"
	"github.com/hearthlink/hearth/internal/protocol"
)

// Response status strings.
const (
	statusOK  = "ok"
	statusOn  = "on"
	statusOff = "off"
	statusSet = "set"
)

// Handler wires the HTTP layer to a fireplace controller.
type Handler struct {
	ctrl fireplace.Controller
	log  *zap.Logger

	// statusInterval is the default WebSocket push interval; clients may
	// override it per connection with ?interval=.
	statusInterval time.Duration
}

// NewHandler constructs a new HTTP handler around a controller.
func NewHandler(ctrl fireplace.Controller, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{ctrl: ctrl, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID)

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	api := router.Group("/api/v1")
	{
		api.GET("/status", h.getStatus)
		api.POST("/power/on", h.powerOn)
		api.POST("/power/off", h.powerOff)
		api.POST("/flame/:level", h.setFlame)
		api.POST("/burner2/:state", h.setBurner2)
	}

	// WebSocket status stream - same port
	router.GET("/ws", h.wsStatus)

	return router
}

// requestID tags every request so device exchanges can be correlated with
// their HTTP trigger in the logs.
func (h *Handler) requestID(c *gin.Context) {
	id := uuid.New().String()
	c.Set("request_id", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

// writeError maps controller errors to HTTP status codes:
//
//	ValidationError      -> 400 (caller sent a bad value)
//	PartialSequenceError -> 502 (device left mid-sequence)
//	ConnectError         -> 503 (device unreachable)
//	TimeoutError         -> 504 (device or queue too slow)
//	anything else        -> 500
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	id, _ := c.Get("request_id")
	h.log.Error("request failed",
		zap.String("op", op),
		zap.Any("request_id", id),
		zap.Error(err))

	var (
		validationErr *protocol.ValidationError
		partialErr    *fireplace.PartialSequenceError
		connectErr    *fireplace.ConnectError
		timeoutErr    *fireplace.TimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &partialErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           err.Error(),
			"steps_completed": partialErr.Completed,
			"steps_total":     partialErr.Steps,
		})
	case errors.As(err, &connectErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &timeoutErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.ctrl.Status(c.Request.Context())
	if err != nil {
		h.writeError(c, "status", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) powerOn(c *gin.Context) {
	if err := h.ctrl.PowerOn(c.Request.Context()); err != nil {
		h.writeError(c, "power_on", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOn})
}

func (h *Handler) powerOff(c *gin.Context) {
	if err := h.ctrl.PowerOff(c.Request.Context()); err != nil {
		h.writeError(c, "power_off", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOff})
}

func (h *Handler) setFlame(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flame level must be an integer"})
		return
	}
	if err := h.ctrl.SetFlame(c.Request.Context(), level); err != nil {
		h.writeError(c, "set_flame", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSet, "level": level})
}

func (h *Handler) setBurner2(c *gin.Context) {
	var err error
	state := c.Param("state")
	switch state {
	case "on":
		err = h.ctrl.Burner2On(c.Request.Context())
	case "off":
		err = h.ctrl.Burner2Off(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "burner2 state must be on or off"})
		return
	}
	if err != nil {
		h.writeError(c, "burner2_"+state, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": state})
}
