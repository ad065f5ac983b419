package people

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"moviweb/internal/events"
)

type Handler struct {
	Service *Service
	Hub     *events.Hub
}

func NewHandler(service *Service, hub *events.Hub) *Handler {
	return &Handler{Service: service, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:person_id", h.getOne)
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Service.Create(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrDuplicateName):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		}
		return
	}

	if h.Hub != nil {
		ev := events.ListEvent{
			Type:     events.TypePersonCreated,
			PersonID: p.ID,
			Title:    p.Name,
			At:       time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(list),
		"people": list,
	})
}

func (h *Handler) getOne(c *gin.Context) {
	id, ok := paramID(c, "person_id")
	if !ok {
		return
	}

	p, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
