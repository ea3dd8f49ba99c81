package panels

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform/platformtest"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	s      *platformtest.Session
	panels dataaccess.PanelDal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := slog.Default()
	store := dataaccess.NewMemoryStore()
	s := platformtest.New()
	s.AddChannel("g1", "c1", "support", discordgo.ChannelTypeGuildText, "")

	panels := dataaccess.NewPanelDal(store, l)
	return &fixture{
		svc:    NewService(l, s, panels, dataaccess.NewTemplateDal(store, l), dataaccess.NewGuildDal(store, l), "!"),
		s:      s,
		panels: panels,
	}
}

func testPanel() *entities.Panel {
	return &entities.Panel{
		ID:               entities.PanelID(1001),
		GuildID:          "g1",
		Name:             "Support",
		ChannelID:        "c1",
		OpenCategoryID:   "cat1",
		StaffRoleID:      "staff",
		ButtonLabel:      "Open Ticket",
		ButtonEmoji:      entities.Emoji{ID: "77", Name: "wolf", Animated: true},
		ButtonColor:      entities.ColorDanger,
		Description:      "Need help?",
		Questions:        []entities.Question{{Text: "issue?", Kind: entities.QuestionPrimary}},
		Claimable:        true,
		OwnerCanClose:    true,
		Enabled:          true,
		TicketsCreated:   12,
		OwnerPermissions: []entities.Capability{entities.CapViewChannel},
	}
}

func TestRender(t *testing.T) {
	msg := Render(testPanel())

	require.Len(t, msg.Embeds, 1)
	require.Equal(t, "Support", msg.Embeds[0].Title)
	require.Equal(t, "Need help?", msg.Embeds[0].Description)

	row := msg.Components[0].(discordgo.ActionsRow)
	button := row.Components[0].(discordgo.Button)
	require.Equal(t, discordgo.DangerButton, button.Style)
	require.Equal(t, "ticket:open:panel:1001", button.CustomID)
	require.Equal(t, "wolf", button.Emoji.Name)
	require.True(t, button.Emoji.Animated)
	require.False(t, button.Disabled)
}

func TestButtonStyle(t *testing.T) {
	tests := []struct {
		color entities.Color
		want  discordgo.ButtonStyle
	}{
		{entities.ColorPrimary, discordgo.PrimaryButton},
		{entities.ColorSecondary, discordgo.SecondaryButton},
		{entities.ColorSuccess, discordgo.SuccessButton},
		{entities.ColorDanger, discordgo.DangerButton},
		{entities.Color("Pink"), discordgo.PrimaryButton},
	}
	for _, tt := range tests {
		t.Run(string(tt.color), func(t *testing.T) {
			require.Equal(t, tt.want, ButtonStyle(tt.color))
		})
	}
}

func TestService_SendRefreshDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testPanel()

	require.NoError(t, f.svc.Send(ctx, p))
	require.NotEmpty(t, p.MessageID)
	require.NoError(t, f.panels.SavePanel(ctx, p))

	p.Name = "Billing"
	require.NoError(t, f.svc.Refresh(ctx, p))
	require.Equal(t, "Billing", f.s.MessagesIn("c1")[0].Embeds[0].Title)

	deleted, err := f.svc.Delete(ctx, "g1", "1001")
	require.NoError(t, err)
	require.Equal(t, p.ID, deleted.ID)
	require.Empty(t, f.s.MessagesIn("c1"))

	_, err = f.panels.GetPanel(ctx, p.ID)
	require.ErrorIs(t, err, dataaccess.ErrNotFound)

	err = f.svc.Refresh(ctx, p)
	require.True(t, platform.IsNotFound(err))
}

func TestService_DeleteWithVanishedMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testPanel()
	p.MessageID = "gone"
	require.NoError(t, f.panels.SavePanel(ctx, p))

	_, err := f.svc.Delete(ctx, "g1", p.ID)
	require.NoError(t, err)
}

func TestService_GetOtherGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.panels.SavePanel(ctx, testPanel()))

	_, err := f.svc.Get(ctx, "g2", "1001")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestService_Templates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.panels.SavePanel(ctx, testPanel()))

	tmpl, err := f.svc.SaveTemplate(ctx, "g1", "1001", "u1")
	require.NoError(t, err)
	require.Len(t, tmpl.Code, 8)
	require.Regexp(t, `^[0-9A-F]{8}$`, tmpl.Code)
	require.True(t, tmpl.Snapshot.ButtonEmoji.IsZero(), "custom emoji must not travel")

	imported, err := f.svc.ImportTemplate(ctx, "g2", " "+tmpl.Code+" ")
	require.NoError(t, err)
	require.False(t, imported.Enabled)
	require.Equal(t, "g2", imported.GuildID)
	require.Equal(t, "Support", imported.Name)
	require.Equal(t, entities.ColorDanger, imported.ButtonColor)
	require.Empty(t, imported.ChannelID)
	require.Empty(t, imported.OpenCategoryID)
	require.Empty(t, imported.CloseCategoryID)
	require.Empty(t, imported.StaffRoleID)
	require.Empty(t, imported.LogsChannelID)
	require.Empty(t, imported.TranscriptChannelID)
	require.Empty(t, imported.MessageID)
	require.Zero(t, imported.TicketsCreated)
	require.NotEqual(t, entities.PanelID(1001), imported.ID)

	stored, err := f.panels.GetPanel(ctx, imported.ID)
	require.NoError(t, err)
	require.False(t, stored.Enabled)

	list, err := f.svc.ListTemplates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = f.svc.DeleteTemplate(ctx, tmpl.Code, "u2")
	require.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	require.NoError(t, f.svc.DeleteTemplate(ctx, tmpl.Code, "u1"))

	_, err = f.svc.ImportTemplate(ctx, "g2", tmpl.Code)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestService_Prefix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Equal(t, "!", f.svc.Prefix(ctx, "g1"))

	require.NoError(t, f.svc.SetPrefix(ctx, "g1", "?"))
	require.Equal(t, "?", f.svc.Prefix(ctx, "g1"))
	require.Equal(t, "!", f.svc.Prefix(ctx, "g2"))

	for _, bad := range []string{"", "  ", "toolong", "a b"} {
		err := f.svc.SetPrefix(ctx, "g1", bad)
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err), bad)
	}
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, seq := range []int{1010, 1002, 1005} {
		p := testPanel()
		p.ID = entities.PanelID(seq)
		require.NoError(t, f.panels.SavePanel(ctx, p))
	}

	list, err := f.svc.List(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, entities.PanelID(1002), list[0].ID)
	require.Equal(t, entities.PanelID(1010), list[2].ID)
}
