package apperr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSink struct{ mock.Mock }

func (m *mockSink) Send(ctx context.Context, ev Event) error {
	return m.Called(ev).Error(0)
}

func (m *mockSink) Close() error { return nil }

func TestHandler_ToastBySeverity(t *testing.T) {
	var toasts []Toast
	h := NewHandler(NotifierFunc(func(t Toast) { toasts = append(toasts, t) }))

	h.Handle(context.Background(), FromStatus(400, "email is required"), Options{})
	h.Handle(context.Background(), FromStatus(500, ""), Options{})

	if assert.Len(t, toasts, 2) {
		assert.Equal(t, LevelWarning, toasts[0].Level)
		assert.Equal(t, "email is required", toasts[0].Message)
		assert.Equal(t, 4*time.Second, toasts[0].Duration)
		assert.Equal(t, LevelError, toasts[1].Level)
		assert.Equal(t, DefaultMessage(KindServer), toasts[1].Message)
		assert.Equal(t, 6*time.Second, toasts[1].Duration)
	}
}

func TestHandler_AuthFailureRedirect(t *testing.T) {
	redirects := 0
	h := NewHandler(nil, WithAuthFailure(func() { redirects++ }))

	h.Handle(context.Background(), FromStatus(401, ""), Options{})
	assert.Equal(t, 1, redirects)

	h.Handle(context.Background(), FromStatus(401, ""), Options{SkipAuthRedirect: true})
	assert.Equal(t, 1, redirects, "opt-out must not redirect")

	h.Handle(context.Background(), FromStatus(403, ""), Options{})
	assert.Equal(t, 1, redirects, "403 is not an authentication failure")
}

func TestHandler_SilentStillForwards(t *testing.T) {
	sink := new(mockSink)
	sink.On("Send", mock.MatchedBy(func(ev Event) bool {
		return ev.Kind == KindNetwork && ev.Severity == LevelError && ev.Cause == "boom"
	})).Return(nil).Once()

	notified := false
	h := NewHandler(NotifierFunc(func(Toast) { notified = true }), WithSink(sink))
	e := h.Handle(context.Background(), errors.New("boom"), Options{Silent: true})

	assert.Equal(t, KindNetwork, e.Kind)
	assert.False(t, notified)
	sink.AssertExpectations(t)
}

func TestHandler_SinkFailureIsNotFatal(t *testing.T) {
	sink := new(mockSink)
	sink.On("Send", mock.Anything).Return(errors.New("broker down"))
	h := NewHandler(nil, WithSink(sink))

	e := h.Handle(context.Background(), FromStatus(404, "gone"), Options{})
	assert.Equal(t, KindNotFound, e.Kind)
}

func TestHandler_Nil(t *testing.T) {
	h := NewHandler(nil)
	assert.Nil(t, h.Handle(context.Background(), nil, Options{}))
}

func TestHandler_CancelledRequestIsQuiet(t *testing.T) {
	sink := new(mockSink)
	notified := false
	h := NewHandler(NotifierFunc(func(Toast) { notified = true }), WithSink(sink))

	e := h.Handle(context.Background(), FromTransport(context.Canceled), Options{})
	assert.Equal(t, KindUnknown, e.Kind)
	assert.ErrorIs(t, e, context.Canceled)
	assert.False(t, notified)
	sink.AssertNotCalled(t, "Send", mock.Anything)

	sink.On("Send", mock.Anything).Return(nil).Once()
	e = h.Handle(context.Background(), FromTransport(context.DeadlineExceeded), Options{})
	assert.Equal(t, KindNetwork, e.Kind)
	assert.True(t, notified, "timeouts are still reported")
	sink.AssertExpectations(t)
}
