package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// videoRoom relays signaling between the peers of one support call
type videoRoom struct {
	session models.VideoSession
	peers   map[uint]bool
	queues  map[uint][]models.VideoSignal
}

func (h *Handler) CreateVideoSession(c *gin.Context) {
	userID := middleware.GetUserID(c)
	room := &videoRoom{
		session: models.VideoSession{ID: uuid.NewString(), HostID: userID, Status: "waiting", CreatedAt: time.Now()},
		peers:   map[uint]bool{userID: true},
		queues:  map[uint][]models.VideoSignal{},
	}
	h.videoMu.Lock()
	h.sessions[room.session.ID] = room
	h.videoMu.Unlock()
	c.JSON(http.StatusCreated, room.session)
}

func (h *Handler) JoinVideoSession(c *gin.Context) {
	h.videoMu.Lock()
	defer h.videoMu.Unlock()
	room, ok := h.sessions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video session not found"})
		return
	}
	room.peers[middleware.GetUserID(c)] = true
	if len(room.peers) > 1 {
		room.session.Status = "active"
	}
	c.JSON(http.StatusOK, room.session)
}

// SignalVideoSession queues the posted signal for every other peer and
// returns whatever was queued for the caller.
func (h *Handler) SignalVideoSession(c *gin.Context) {
	var sig models.VideoSignal
	if err := c.ShouldBindJSON(&sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)

	h.videoMu.Lock()
	defer h.videoMu.Unlock()
	room, ok := h.sessions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video session not found"})
		return
	}
	if !room.peers[userID] {
		c.JSON(http.StatusForbidden, gin.H{"error": "Join the session first"})
		return
	}
	if sig.Type != "" {
		sig.From = userID
		for peer := range room.peers {
			if peer != userID {
				room.queues[peer] = append(room.queues[peer], sig)
			}
		}
	}
	pending := room.queues[userID]
	if pending == nil {
		pending = []models.VideoSignal{}
	}
	room.queues[userID] = nil
	c.JSON(http.StatusOK, pending)
}

func (h *Handler) EndVideoSession(c *gin.Context) {
	h.videoMu.Lock()
	defer h.videoMu.Unlock()
	room, ok := h.sessions[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video session not found"})
		return
	}
	if room.session.HostID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can end the session"})
		return
	}
	delete(h.sessions, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Video session ended"})
}
