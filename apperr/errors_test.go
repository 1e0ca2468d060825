package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{400, KindValidation},
		{409, KindValidation},
		{422, KindValidation},
		{401, KindAuthentication},
		{403, KindAuthorization},
		{404, KindNotFound},
		{500, KindServer},
		{503, KindServer},
		{302, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.kind, FromStatus(tt.status, "").Kind)
		})
	}
}

func TestFromTransport(t *testing.T) {
	assert.Equal(t, KindNetwork, FromTransport(&net.OpError{Op: "dial", Err: errors.New("refused")}).Kind)
	assert.Equal(t, KindNetwork, FromTransport(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindUnknown, FromTransport(context.Canceled).Kind)
}

func TestClassify_KeepsClassifiedErrors(t *testing.T) {
	orig := FromStatus(404, "menu item not found")
	wrapped := fmt.Errorf("load item: %w", orig)
	assert.Same(t, orig, Classify(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Nil(t, Classify(nil))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(FromStatus(502, "")))
	assert.True(t, Retryable(FromTransport(errors.New("connection reset"))))
	for _, status := range []int{400, 401, 403, 404, 422} {
		assert.False(t, Retryable(FromStatus(status, "")), status)
	}
	assert.False(t, Retryable(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: KindNotFound, Status: 404, Op: "menu.get", Message: "Menu item not found"}
	assert.Equal(t, "menu.get: not_found (404): Menu item not found", e.Error())

	e = &Error{Kind: KindNetwork, Err: errors.New("dial tcp: refused")}
	assert.Contains(t, e.Error(), "dial tcp: refused")
}
