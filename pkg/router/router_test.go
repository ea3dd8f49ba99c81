package router_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
	"github.com/stretchr/testify/require"
)

var invoker = platformtest.Invoker{
	GuildID:   "g1",
	ChannelID: "c1",
	UserID:    "u1",
	Username:  "alice",
}

type recorder struct {
	calls   []router.Action
	acked   []bool
	err     error
	panicky bool
}

func (r *recorder) Execute(_ context.Context, ix *platform.Interaction, a router.Action) error {
	r.calls = append(r.calls, a)
	r.acked = append(r.acked, ix.Acknowledged())
	if r.panicky {
		panic("handler exploded")
	}
	return r.err
}

func route(s *platformtest.Session, rt *router.Router, i *discordgo.Interaction) {
	rt.Route(context.Background(), platform.NewInteraction(s, i))
}

func TestRouter_DefersPlainButtons(t *testing.T) {
	s := platformtest.New()
	rt := router.New(slog.Default())
	h := new(recorder)
	rt.Register("setup", h)

	route(s, rt, invoker.Button("setup:screen:main"))

	require.Len(t, h.calls, 1)
	require.Equal(t, router.Action{System: "setup", Name: "screen", Args: []string{"main"}}, h.calls[0])
	require.True(t, h.acked[0])
	require.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, s.LastResponse().Type)
}

func TestRouter_AckPolicy(t *testing.T) {
	tests := []struct {
		name      string
		i         *discordgo.Interaction
		wantAcked bool
	}{
		{name: "modal opener", i: invoker.Button("setup:modal:name"), wantAcked: false},
		{name: "ticket open", i: invoker.Button("ticket:open:1001"), wantAcked: false},
		{name: "ticket close", i: invoker.Button("ticket:close"), wantAcked: false},
		{name: "delete confirm", i: invoker.Button("ticket:deleteconfirm"), wantAcked: false},
		{name: "select", i: invoker.Select("setup:select:color", "Danger"), wantAcked: true},
		{name: "modal submit", i: invoker.Modal("setup:submit:name", map[string]string{"value": "x"}), wantAcked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := platformtest.New()
			rt := router.New(slog.Default())
			h := new(recorder)
			rt.Register("setup", h)
			rt.Register("ticket", h)

			route(s, rt, tt.i)

			require.Len(t, h.calls, 1)
			require.Equal(t, tt.wantAcked, h.acked[0])
		})
	}
}

func TestRouter_IgnoresCommands(t *testing.T) {
	s := platformtest.New()
	rt := router.New(slog.Default())
	h := new(recorder)
	rt.Register("panel", h)

	route(s, rt, invoker.Command("panel"))

	require.Empty(t, h.calls)
	require.Empty(t, s.Responses())
}

func TestRouter_DropsMalformedAndUnknown(t *testing.T) {
	s := platformtest.New()
	rt := router.New(slog.Default())
	h := new(recorder)
	rt.Register("setup", h)

	route(s, rt, invoker.Button("garbage"))
	route(s, rt, invoker.Button("legacy:close"))

	require.Empty(t, h.calls)
	require.Empty(t, s.Responses())
}

func TestRouter_RegisterReplaces(t *testing.T) {
	s := platformtest.New()
	rt := router.New(slog.Default())
	first, second := new(recorder), new(recorder)
	rt.Register("setup", first)
	rt.Register("setup", second)

	route(s, rt, invoker.Button("setup:finish"))

	require.Empty(t, first.calls)
	require.Len(t, second.calls, 1)
}

func TestRouter_HandlerErrorSendsNotice(t *testing.T) {
	tests := []struct {
		name       string
		i          *discordgo.Interaction
		h          *recorder
		wantMethod string
	}{
		{
			name:       "error after defer edits reply",
			i:          invoker.Button("setup:finish"),
			h:          &recorder{err: errors.New("boom")},
			wantMethod: "edit",
		},
		{
			name:       "error before ack replies",
			i:          invoker.Button("ticket:close"),
			h:          &recorder{err: errors.New("boom")},
			wantMethod: "respond",
		},
		{
			name:       "panic is recovered",
			i:          invoker.Button("ticket:claim"),
			h:          &recorder{panicky: true},
			wantMethod: "respond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := platformtest.New()
			rt := router.New(slog.Default())
			rt.Register("setup", tt.h)
			rt.Register("ticket", tt.h)

			require.NotPanics(t, func() { route(s, rt, tt.i) })

			resp := s.LastResponse()
			require.Equal(t, tt.wantMethod, resp.Method)
			require.Equal(t, router.GenericFailure, resp.Data.Content)
		})
	}
}

func TestRouter_NoticeFailureSwallowed(t *testing.T) {
	s := platformtest.New()
	s.Fail("Respond", errors.New("interaction expired"))
	rt := router.New(slog.Default())
	rt.Register("ticket", &recorder{err: errors.New("boom")})

	require.NotPanics(t, func() { route(s, rt, invoker.Button("ticket:close")) })
	require.Equal(t, 1, s.Calls("Respond"))
}

func TestHandlerFunc(t *testing.T) {
	s := platformtest.New()
	rt := router.New(slog.Default())

	var got router.Action
	rt.Register("ticket", router.HandlerFunc(func(_ context.Context, _ *platform.Interaction, a router.Action) error {
		got = a
		return nil
	}))

	route(s, rt, invoker.Button("ticket:transcript"))
	require.Equal(t, "transcript", got.Name)
}
