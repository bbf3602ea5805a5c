package usecase

import (
	"context"
	"errors"
	"testing"

	"advance-auth/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	h := newHarness(t)
	id := registerAlice(t, h)

	profile, err := h.svc.User.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
	assert.False(t, profile.IsAccountVerified)
}

func TestGetProfile_Failures(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.User.GetProfile(context.Background(), "acc-404")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, MsgUserNotFound, apperror.MessageOf(err))

	h.users.err = errors.New("timeout")
	_, err = h.svc.User.GetProfile(context.Background(), "acc-1")
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
