package tickets

import (
	"context"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform/platformtest"
	"github.com/stretchr/testify/require"
)

func invoker(a Actor) platformtest.Invoker {
	return platformtest.Invoker{
		GuildID:     guildID,
		ChannelID:   "c1",
		UserID:      a.UserID,
		Username:    a.Username,
		Roles:       a.RoleIDs,
		Permissions: a.Permissions,
	}
}

func (f *fixture) route(i *discordgo.Interaction) {
	f.rt.Route(context.Background(), platform.NewInteraction(f.s, i))
}

// replyTo returns the final content sent for an interaction.
func (f *fixture) replyTo(t *testing.T, interactionID string) *discordgo.InteractionResponseData {
	t.Helper()
	var data *discordgo.InteractionResponseData
	for _, r := range f.s.Responses() {
		if r.InteractionID == interactionID && r.Data != nil && (r.Method != "respond" || r.Type != discordgo.InteractionResponseDeferredChannelMessageWithSource) {
			data = r.Data
		}
	}
	require.NotNil(t, data, "no reply to %s", interactionID)
	return data
}

func TestExecute_QuestionsFlow(t *testing.T) {
	f := newFixture(t, func(p *entities.Panel) {
		p.Questions = []entities.Question{
			{Text: "What is broken?", Kind: entities.QuestionPrimary},
			{Text: "Anything else?", Kind: entities.QuestionOptional},
		}
	})
	ctx := context.Background()

	f.route(invoker(owner).Button(panels.OpenButtonID(f.panel.ID)))
	modal := f.s.LastResponse()
	require.Equal(t, discordgo.InteractionResponseModal, modal.Type)
	require.Equal(t, "ticket:questions:panel:1001", modal.Data.CustomID)
	require.Len(t, modal.Data.Components, 2)

	// A missing primary answer is rejected before anything is created.
	missing := invoker(owner).Modal(modal.Data.CustomID, map[string]string{"q0": " ", "q1": "no"})
	f.route(missing)
	require.Contains(t, f.replyTo(t, missing.ID).Content, "What is broken?")
	_, err := f.tickets.FindOpenTicket(ctx, owner.UserID, f.panel.ID)
	require.Error(t, err)

	submit := invoker(owner).Modal(modal.Data.CustomID, map[string]string{"q0": "the printer"})
	f.route(submit)

	reply := f.replyTo(t, submit.ID)
	require.Equal(t, discordgo.MessageFlagsEphemeral, reply.Flags)
	require.Len(t, reply.Embeds, 1)
	require.Equal(t, "Ticket Created", reply.Embeds[0].Title)

	tk, err := f.tickets.FindOpenTicket(ctx, owner.UserID, f.panel.ID)
	require.NoError(t, err)
	require.Equal(t, []entities.Answer{
		{Question: "What is broken?", Answer: "the printer"},
		{Question: "Anything else?", Answer: ""},
	}, tk.Answers)

	welcome := f.message(t, tk.ChannelID, tk.WelcomeMessageID)
	require.Equal(t, "the printer", welcome.Embeds[0].Fields[0].Value)
	require.Equal(t, "No answer", welcome.Embeds[0].Fields[1].Value)
}

func TestExecute_OpenWithoutQuestions(t *testing.T) {
	f := newFixture(t)

	press := invoker(owner).Button(panels.OpenButtonID(f.panel.ID))
	f.route(press)
	require.Equal(t, "Ticket Created", f.replyTo(t, press.ID).Embeds[0].Title)

	again := invoker(owner).Button(panels.OpenButtonID(f.panel.ID))
	f.route(again)
	require.Contains(t, f.replyTo(t, again.ID).Content, "You already have an open ticket")
}

func TestExecute_ConcurrentClose(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)
	customID := "ticket:close:" + tk.ID

	presses := []*discordgo.Interaction{
		invoker(staff).Button(customID),
		invoker(owner).Button(customID),
	}
	var wg sync.WaitGroup
	for _, i := range presses {
		wg.Add(1)
		go func(i *discordgo.Interaction) {
			defer wg.Done()
			f.route(i)
		}(i)
	}
	wg.Wait()

	replies := make([]string, 0, len(presses))
	for _, i := range presses {
		replies = append(replies, f.replyTo(t, i.ID).Content)
	}
	require.ElementsMatch(t, []string{"Ticket closed successfully.", "This ticket is already closed."}, replies)

	// The channel was renamed once.
	require.Equal(t, 1, f.s.Calls("RenameChannel"))
	require.Equal(t, "closed-ticket-alice", f.channel(t, tk.ChannelID).Name)
}

func TestExecute_DeleteConfirm(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)

	denied := invoker(owner).Button("ticket:delete:" + tk.ID)
	f.route(denied)
	require.Equal(t, "Only staff can do that.", f.replyTo(t, denied.ID).Content)

	ask := invoker(staff).Button("ticket:delete:" + tk.ID)
	f.route(ask)
	prompt := f.replyTo(t, ask.ID)
	require.Equal(t, discordgo.MessageFlagsEphemeral, prompt.Flags)
	require.Len(t, prompt.Components, 1)
	row := prompt.Components[0].(discordgo.ActionsRow)
	confirmID := row.Components[0].(discordgo.Button).CustomID
	require.Equal(t, "ticket:deleteconfirm:"+tk.ID, confirmID)
	require.NotNil(t, f.s.ChannelByID(tk.ChannelID))

	confirm := invoker(staff).Button(confirmID)
	f.route(confirm)
	require.Equal(t, "Ticket deleted.", f.replyTo(t, confirm.ID).Content)
	require.Nil(t, f.s.ChannelByID(tk.ChannelID))
}

func TestExecute_Transcript(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)

	press := invoker(owner).Button("ticket:transcript:" + tk.ID)
	f.route(press)

	reply := f.replyTo(t, press.ID)
	require.Equal(t, "Transcript created.", reply.Content)
	require.Len(t, reply.Files, 1)
	require.Len(t, reply.Embeds, 1)
}

func TestExecute_WarningsAreShown(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)
	f.s.Fail("MoveChannel", context.DeadlineExceeded)

	press := invoker(staff).Button("ticket:close:" + tk.ID)
	f.route(press)

	require.Equal(t,
		"Ticket closed successfully.\n"+WarningEmoji+" The channel could not be moved to the closed category.",
		f.replyTo(t, press.ID).Content)
}

func TestExecute_MissingTicket(t *testing.T) {
	f := newFixture(t)

	press := invoker(staff).Button("ticket:claim:ticket:4242")
	f.route(press)
	require.Equal(t, "This ticket no longer exists.", f.replyTo(t, press.ID).Content)
}
