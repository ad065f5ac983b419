package movies

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"moviweb/internal/events"
	"moviweb/internal/notify"
)

type Handler struct {
	Service *Service
	Hub     *events.Hub
	Notify  *notify.Server
}

func NewHandler(service *Service, hub *events.Hub, notifySrv *notify.Server) *Handler {
	return &Handler{Service: service, Hub: hub, Notify: notifySrv}
}

// RegisterPersonRoutes mounts the per-person list routes on the /people group.
func (h *Handler) RegisterPersonRoutes(rg *gin.RouterGroup) {
	rg.GET("/:person_id/movies", h.list)
	rg.POST("/:person_id/movies", h.add)
	rg.DELETE("/:person_id/movies", h.clear)
}

// RegisterMovieRoutes mounts the movie-id routes on the /movies group.
func (h *Handler) RegisterMovieRoutes(rg *gin.RouterGroup) {
	rg.PUT("/:movie_id", h.updateTitle)
	rg.DELETE("/:movie_id", h.remove)
}

type addReq struct {
	Title string `json:"title"`
}

func (h *Handler) add(c *gin.Context) {
	personID, ok := paramID(c, "person_id")
	if !ok {
		return
	}

	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	m, err := h.Service.Add(c.Request.Context(), personID, req.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.Hub != nil {
		ev := events.ListEvent{
			Type:     events.TypeMovieAdded,
			PersonID: m.PersonID,
			MovieID:  m.ID,
			Title:    m.Title,
			At:       time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}
	if h.Notify != nil {
		go h.Notify.BroadcastMovieAdded(m.PersonID, m.ID, m.Title)
	}

	c.JSON(http.StatusCreated, m)
}

func (h *Handler) list(c *gin.Context) {
	personID, ok := paramID(c, "person_id")
	if !ok {
		return
	}

	list, err := h.Service.ListByPerson(c.Request.Context(), personID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(list),
		"movies": list,
	})
}

type updateReq struct {
	Title string `json:"title"`
}

func (h *Handler) updateTitle(c *gin.Context) {
	movieID, ok := paramID(c, "movie_id")
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	m, err := h.Service.UpdateTitle(c.Request.Context(), movieID, req.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.Hub != nil {
		ev := events.ListEvent{
			Type:     events.TypeMovieUpdated,
			PersonID: m.PersonID,
			MovieID:  m.ID,
			Title:    m.Title,
			At:       time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, m)
}

func (h *Handler) remove(c *gin.Context) {
	movieID, ok := paramID(c, "movie_id")
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), movieID); err != nil {
		h.writeError(c, err)
		return
	}

	if h.Hub != nil {
		ev := events.ListEvent{
			Type:    events.TypeMovieDeleted,
			MovieID: movieID,
			At:      time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) clear(c *gin.Context) {
	personID, ok := paramID(c, "person_id")
	if !ok {
		return
	}

	n, err := h.Service.ClearPerson(c.Request.Context(), personID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.Hub != nil {
		ev := events.ListEvent{
			Type:     events.TypeListCleared,
			PersonID: personID,
			At:       time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicateTitle):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPersonNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store failure"})
	}
}
