package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/apitest"
)

func TestParseSeedCount(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc", "", "2.5", "1e3"} {
		_, err := ParseSeedCount(raw)
		require.Error(t, err, raw)
		assert.Equal(t, "Seed count must be a number greater than zero.", err.Error())
	}
	n, err := ParseSeedCount(" 25 ")
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestAdminPanel_PasswordRequired(t *testing.T) {
	srv, c := newClient(t)
	p := NewAdminPanel(c, AlwaysConfirm)
	p.SetPassword("   ")

	_, err := p.Seed(context.Background(), "5")
	require.Error(t, err)
	assert.Equal(t, "Admin password is required.", err.Error())

	_, err = p.Reset(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, srv.RequestCount())
}

func TestAdminPanel_SeedRejectsBadCountClientSide(t *testing.T) {
	srv, c := newClient(t)
	p := NewAdminPanel(c, AlwaysConfirm)
	p.SetPassword(apitest.DefaultPassword)

	for _, raw := range []string{"0", "lots"} {
		_, err := p.Seed(context.Background(), raw)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}
	assert.Equal(t, 0, srv.RequestCount())
}

func TestAdminPanel_Seed(t *testing.T) {
	srv, c := newClient(t)
	p := NewAdminPanel(c, AlwaysConfirm)
	p.SetPassword(" " + apitest.DefaultPassword + " ")

	msg, err := p.Seed(context.Background(), DefaultSeedCount)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 25 fake orders.", msg.Message)
	assert.Equal(t, 25, srv.Len())
	assert.Equal(t, apitest.DefaultPassword, srv.Requests()[0].Password, "password is trimmed")
}

func TestAdminPanel_ResetRequiresConfirmation(t *testing.T) {
	srv, c := newClient(t)
	_, err := c.SeedOrders(context.Background(), apitest.DefaultPassword, 3)
	require.NoError(t, err)
	before := srv.RequestCount()

	confirm := &recordingConfirmer{answer: false}
	p := NewAdminPanel(c, confirm)
	p.SetPassword(apitest.DefaultPassword)

	msg, err := p.Reset(context.Background())
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, []string{ResetPrompt}, confirm.prompts)
	assert.Equal(t, before, srv.RequestCount())
	assert.Equal(t, 3, srv.Len())

	confirm.answer = true
	msg, err = p.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "All orders have been removed.", msg.Message)
	assert.Equal(t, 0, srv.Len())
}

func TestAdminPanel_Unauthorized(t *testing.T) {
	_, c := newClient(t)
	p := NewAdminPanel(c, AlwaysConfirm)
	p.SetPassword("wrong")

	_, err := p.Reset(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Unauthorized.", p.Feedback().Message)
	assert.Equal(t, FeedbackError, p.Feedback().Kind)
}
