package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sam414141/Digital-MenuCard-sub001/config"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := config.OpenSQLite(":memory:")
	require.NoError(t, err)
	s, err := NewGormStore(db)
	require.NoError(t, err)
	return s
}

func TestGormStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec, "empty store loads nothing")

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	in := Record{
		Token:     "tok",
		User:      models.User{ID: 7, Name: "Asha", Email: "asha@example.com", Role: models.RoleWaiter, DietaryRestrictions: []string{"vegan"}},
		SessionID: "sess-1",
		ExpiresAt: exp,
	}
	require.NoError(t, s.Save(ctx, in))
	require.NoError(t, s.Save(ctx, in), "saving twice overwrites the single row")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, uint(7), got.User.ID)
	assert.Equal(t, models.RoleWaiter, got.User.Role)
	assert.Equal(t, []string{"vegan"}, got.User.DietaryRestrictions)
	assert.True(t, exp.Equal(got.ExpiresAt))

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(&Record{Token: "a"})

	got, err := s.Load(ctx)
	require.NoError(t, err)
	got.Token = "mutated"

	again, _ := s.Load(ctx)
	assert.Equal(t, "a", again.Token, "Load hands out copies")

	require.NoError(t, s.Clear(ctx))
	again, _ = s.Load(ctx)
	assert.Nil(t, again)
}

func TestRecord_Expired(t *testing.T) {
	now := time.Now()
	assert.True(t, Record{ExpiresAt: now}.Expired(now))
	assert.True(t, Record{ExpiresAt: now.Add(-time.Second)}.Expired(now))
	assert.False(t, Record{ExpiresAt: now.Add(time.Second)}.Expired(now))
}
