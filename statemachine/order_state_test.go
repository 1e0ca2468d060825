package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		actor    Actor
		ok       bool
	}{
		{models.StatusPending, models.StatusPreparing, ActorKitchen, true},
		{models.StatusPreparing, models.StatusPrepared, ActorKitchen, true},
		{models.StatusPrepared, models.StatusServed, ActorWaiter, true},
		{models.StatusServed, models.StatusCompleted, ActorWaiter, true},
		{models.StatusPending, models.StatusCancelled, ActorCustomer, true},
		{models.StatusPreparing, models.StatusCancelled, ActorCustomer, false},
		{models.StatusPreparing, models.StatusCancelled, ActorAdmin, true},
		{models.StatusPending, models.StatusPrepared, ActorKitchen, false},
		{models.StatusPrepared, models.StatusServed, ActorKitchen, false},
		{models.StatusCompleted, models.StatusPending, ActorAdmin, false},
		// legacy spellings
		{"prepairing", "prepaired", ActorKitchen, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.to)+"_"+string(tt.actor), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCanTransition_TerminalMessage(t *testing.T) {
	err := CanTransition(models.StatusCompleted, models.StatusServed, ActorWaiter)
	assert.ErrorContains(t, err, "none (terminal state)")
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, models.StatusPreparing, NormalizeStatus("prepairing"))
	assert.Equal(t, models.StatusPrepared, NormalizeStatus("Prepaired"))
	assert.Equal(t, models.StatusPrepared, NormalizeStatus("ready"))
	assert.Equal(t, models.StatusServed, NormalizeStatus(" SERVED "))
}

func TestNextFor(t *testing.T) {
	assert.Equal(t, []models.OrderStatus{models.StatusPreparing}, NextFor(models.StatusPending, ActorKitchen))
	assert.Equal(t, []models.OrderStatus{models.StatusCancelled}, NextFor(models.StatusPending, ActorCustomer))
	assert.Empty(t, NextFor(models.StatusPrepared, ActorKitchen))
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusPreparing, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusPending))
}

func TestActorFor(t *testing.T) {
	assert.Equal(t, ActorKitchen, ActorFor(models.RoleKitchenStaff))
	assert.Equal(t, ActorWaiter, ActorFor(models.RoleWaiter))
	assert.Equal(t, ActorAdmin, ActorFor(models.RoleAdmin))
	assert.Equal(t, ActorCustomer, ActorFor(models.RoleCustomer))
}
