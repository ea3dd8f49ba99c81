package platform_test

import (
	"context"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform/platformtest"
	"github.com/stretchr/testify/require"
)

var invoker = platformtest.Invoker{
	GuildID:   "g1",
	ChannelID: "c1",
	UserID:    "u1",
	Username:  "alice",
	Roles:     []string{"r1"},
}

func TestInteraction_ReplyBeforeAck(t *testing.T) {
	s := platformtest.New()
	ix := platform.NewInteraction(s, invoker.Button("ticket:close"))

	require.False(t, ix.Acknowledged())
	require.NoError(t, ix.Reply(context.Background(), platform.Ephemeral("hello")))
	require.True(t, ix.Acknowledged())

	resp := s.LastResponse()
	require.Equal(t, "respond", resp.Method)
	require.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	require.Equal(t, "hello", resp.Data.Content)
	require.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func TestInteraction_ReplyAfterDeferReplyEditsResponse(t *testing.T) {
	s := platformtest.New()
	ix := platform.NewInteraction(s, invoker.Button("ticket:close"))
	ctx := context.Background()

	require.NoError(t, ix.DeferReply(ctx, true))
	require.NoError(t, ix.Reply(ctx, platform.Ephemeral("done")))
	require.NoError(t, ix.Reply(ctx, platform.Ephemeral("again")))

	responses := s.Responses()
	require.Len(t, responses, 3)
	require.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, responses[0].Type)
	require.Equal(t, "edit", responses[1].Method)
	require.Equal(t, "followup", responses[2].Method)
}

func TestInteraction_UpdateAfterDeferUpdate(t *testing.T) {
	s := platformtest.New()
	ix := platform.NewInteraction(s, invoker.Select("setup:select:channel", "c9"))
	ctx := context.Background()

	require.NoError(t, ix.DeferUpdate(ctx))
	require.ErrorIs(t, ix.DeferUpdate(ctx), platform.ErrAlreadyAcknowledged)
	require.NoError(t, ix.Update(ctx, &discordgo.InteractionResponseData{Content: "screen"}))

	resp := s.LastResponse()
	require.Equal(t, "edit", resp.Method)
	require.Equal(t, "screen", resp.Data.Content)
}

func TestInteraction_ShowModalOnlyFirst(t *testing.T) {
	s := platformtest.New()
	ctx := context.Background()

	ix := platform.NewInteraction(s, invoker.Button("setup:modal:name"))
	require.NoError(t, ix.ShowModal(ctx, &discordgo.InteractionResponseData{CustomID: "setup:submit:name"}))
	require.Equal(t, discordgo.InteractionResponseModal, s.LastResponse().Type)

	deferred := platform.NewInteraction(s, invoker.Button("setup:modal:name"))
	require.NoError(t, deferred.DeferUpdate(ctx))
	require.ErrorIs(t, deferred.ShowModal(ctx, &discordgo.InteractionResponseData{}), platform.ErrAlreadyAcknowledged)
}

func TestInteraction_EditReplyWithoutAckReplies(t *testing.T) {
	s := platformtest.New()
	ix := platform.NewInteraction(s, invoker.Button("x:y"))

	require.NoError(t, ix.EditReply(context.Background(), platform.Ephemeral("oops")))
	require.Equal(t, "respond", s.LastResponse().Method)
}

func TestInteraction_Data(t *testing.T) {
	s := platformtest.New()

	sel := platform.NewInteraction(s, invoker.Select("setup:select:role", "r2", "r3"))
	require.True(t, sel.IsComponent())
	require.Equal(t, "setup:select:role", sel.CustomID())
	require.Equal(t, []string{"r2", "r3"}, sel.Values())
	require.Equal(t, "u1", sel.User().ID)
	require.Equal(t, []string{"r1"}, sel.RoleIDs())

	modal := platform.NewInteraction(s, invoker.Modal("setup:submit:name", map[string]string{"value": "Support"}))
	require.True(t, modal.IsModalSubmit())
	require.Equal(t, "setup:submit:name", modal.CustomID())
	require.Equal(t, map[string]string{"value": "Support"}, modal.FormValues())
	require.Nil(t, modal.Values())
}
