package platform

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func message(channelID, userID, content string) *discordgo.Message {
	return &discordgo.Message{
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: userID},
	}
}

func TestCollector_ResolvesOnce(t *testing.T) {
	c := NewCollector()
	p := c.Await("c1", "u1", time.Minute)
	require.Equal(t, 1, c.Len())

	c.Dispatch(message("c1", "u2", "not me"))
	c.Dispatch(message("c2", "u1", "wrong channel"))
	c.Dispatch(message("c1", "u1", "🎫"))
	c.Dispatch(message("c1", "u1", "second"))

	got, err := p.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "🎫", got.Content)
	require.Equal(t, 0, c.Len())
}

func TestCollector_Expires(t *testing.T) {
	c := NewCollector()
	p := c.Await("c1", "u1", 10*time.Millisecond)

	got, err := p.Wait(context.Background())
	require.ErrorIs(t, err, ErrExpired)
	require.Nil(t, got)
	require.Equal(t, 0, c.Len())

	// A late message has nothing to resolve.
	c.Dispatch(message("c1", "u1", "late"))
}

func TestCollector_Cancel(t *testing.T) {
	c := NewCollector()
	p := c.Await("c1", "u1", time.Minute)
	p.Cancel()
	p.Cancel()

	_, err := p.Wait(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, 0, c.Len())
}

func TestCollector_ContextCancelsCapture(t *testing.T) {
	c := NewCollector()
	p := c.Await("c1", "u1", time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx)
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, 0, c.Len())
}

func TestCollector_Handle(t *testing.T) {
	c := NewCollector()
	p := c.Await("c1", "u1", time.Minute)

	c.Handle(nil, &discordgo.MessageCreate{Message: message("c1", "u1", "hi")})
	c.Handle(nil, nil)

	got, err := p.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "hi", got.Content)
}
