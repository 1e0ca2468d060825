package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// Record is everything persisted about the signed-in user
type Record struct {
	Token     string
	User      models.User
	SessionID string
	ExpiresAt time.Time
}

// Expired reports whether the record is past its absolute expiry at now
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Store is durable client storage for the session. Load returns nil, nil
// when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

// sessionRow is the single row the gorm store keeps
type sessionRow struct {
	ID        uint `gorm:"primaryKey"`
	Token     string
	UserJSON  string
	SessionID string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

func (sessionRow) TableName() string { return "client_sessions" }

const rowID = 1

// GormStore keeps the session in a local database (sqlite by default)
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("migrate session table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context) (*Record, error) {
	var row sessionRow
	err := s.db.WithContext(ctx).First(&row, rowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	rec := &Record{Token: row.Token, SessionID: row.SessionID, ExpiresAt: row.ExpiresAt}
	if err := json.Unmarshal([]byte(row.UserJSON), &rec.User); err != nil {
		// A corrupt user blob makes the whole session unusable
		return nil, nil
	}
	return rec, nil
}

func (s *GormStore) Save(ctx context.Context, rec Record) error {
	user, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	row := sessionRow{
		ID:        rowID,
		Token:     rec.Token,
		UserJSON:  string(user),
		SessionID: rec.SessionID,
		ExpiresAt: rec.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&sessionRow{}, rowID).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MemoryStore keeps the session for the lifetime of the process only
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

func NewMemoryStore(initial *Record) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		cp := *initial
		s.rec = &cp
	}
	return s
}

func (s *MemoryStore) Load(context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, nil
	}
	cp := *s.rec
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}
