// Package handlers is the gin side of the development backend: it serves
// the endpoint surface the client consumes, backed by gorm.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// Handler carries what every endpoint needs
type Handler struct {
	DB       *gorm.DB
	Secret   []byte
	TokenTTL time.Duration
	Events   live.Publisher
	log      *logger.Logger

	videoMu  sync.Mutex
	sessions map[string]*videoRoom
}

func New(db *gorm.DB, secret []byte, ttl time.Duration, events live.Publisher) *Handler {
	if events == nil {
		events = live.NopPublisher{}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handler{
		DB:       db,
		Secret:   secret,
		TokenTTL: ttl,
		Events:   events,
		log:      logger.New("mockapi"),
		sessions: make(map[string]*videoRoom),
	}
}

// paramID reads a positive numeric path parameter, answering 400 otherwise
func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(n), true
}

// publish announces an order change; failures only get logged
func (h *Handler) publish(ev live.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.log.Warn("event_publish_failed", err, map[string]any{"order_id": ev.OrderID, "type": ev.Type})
	}
}

// Migrate creates every table the backend uses
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Promotion{},
		&models.InventoryItem{},
		&models.Favorite{},
		&models.Feedback{},
		&models.ContactMessage{},
	)
}
