package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/governor"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
	"github.com/Jacobbrewer1/ticketwolf/pkg/transcript"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const guildID = "g1"

var (
	owner = Actor{UserID: "u1", Username: "Alice"}
	staff = Actor{UserID: "s1", Username: "Bob", RoleIDs: []string{"staff"}}
	admin = Actor{UserID: "a1", Username: "Root", Permissions: discordgo.PermissionAdministrator}
	other = Actor{UserID: "u2", Username: "Mallory"}
)

type fixture struct {
	h       *Handler
	s       *platformtest.Session
	rt      *router.Router
	tickets dataaccess.TicketDal
	panels  dataaccess.PanelDal
	panel   *entities.Panel
}

func newFixture(t *testing.T, configure ...func(p *entities.Panel)) *fixture {
	t.Helper()
	l := slog.Default()
	store := dataaccess.NewMemoryStore()

	s := platformtest.New()
	s.AddChannel(guildID, "c1", "support", discordgo.ChannelTypeGuildText, "")
	s.AddChannel(guildID, "open", "Open Tickets", discordgo.ChannelTypeGuildCategory, "")
	s.AddChannel(guildID, "closed", "Closed Tickets", discordgo.ChannelTypeGuildCategory, "")
	s.AddChannel(guildID, "logs", "ticket-logs", discordgo.ChannelTypeGuildText, "")
	s.AddChannel(guildID, "tx", "transcripts", discordgo.ChannelTypeGuildText, "")
	s.AddRole(guildID, "staff", "Staff")
	s.AddMember(guildID, owner.UserID, owner.Username)
	s.AddMember(guildID, staff.UserID, staff.Username, "staff")

	ticketDal := dataaccess.NewTicketDal(store, l)
	panelDal := dataaccess.NewPanelDal(store, l)
	svc := panels.NewService(l, s, panelDal, dataaccess.NewTemplateDal(store, l), dataaccess.NewGuildDal(store, l), "!")
	gov := governor.New(l, governor.WithInterval(time.Millisecond), governor.WithTimeout(100*time.Millisecond))

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := New(l, s, ticketDal, panelDal, svc, gov, transcript.NewHTML(l, s),
		WithNoticeDelay(time.Millisecond),
		WithClock(func() time.Time { return now }),
	)
	t.Cleanup(h.Wait)

	p := &entities.Panel{
		ID:                  entities.PanelID(1001),
		GuildID:             guildID,
		Name:                "Support",
		ChannelID:           "c1",
		OpenCategoryID:      "open",
		CloseCategoryID:     "closed",
		StaffRoleID:         "staff",
		LogsChannelID:       "logs",
		TranscriptChannelID: "tx",
		ButtonLabel:         entities.DefaultButtonLabel,
		ButtonEmoji:         entities.Emoji{Name: entities.DefaultButtonEmoji},
		ButtonColor:         entities.ColorPrimary,
		Description:         entities.DefaultDescription,
		OpenMessage:         entities.DefaultOpenMessage,
		Claimable:           true,
		OwnerCanClose:       true,
		Enabled:             true,
	}
	for _, fn := range configure {
		fn(p)
	}
	require.NoError(t, panelDal.SavePanel(context.Background(), p))

	rt := router.New(l)
	rt.Register(System, h)

	return &fixture{
		h:       h,
		s:       s,
		rt:      rt,
		tickets: ticketDal,
		panels:  panelDal,
		panel:   p,
	}
}

func (f *fixture) create(t *testing.T, actor Actor) *entities.Ticket {
	t.Helper()
	res, err := f.h.Create(context.Background(), actor, guildID, f.panel.ID, nil)
	require.NoError(t, err)
	require.True(t, res.Committed)
	return res.Ticket
}

func (f *fixture) stored(t *testing.T, id string) *entities.Ticket {
	t.Helper()
	got, err := f.tickets.GetTicket(context.Background(), id)
	require.NoError(t, err)
	return got
}

func (f *fixture) channel(t *testing.T, id string) *discordgo.Channel {
	t.Helper()
	ch := f.s.ChannelByID(id)
	require.NotNil(t, ch, "channel %s does not exist", id)
	return ch
}

func (f *fixture) message(t *testing.T, channelID, messageID string) *discordgo.Message {
	t.Helper()
	for _, m := range f.s.MessagesIn(channelID) {
		if m.ID == messageID {
			return m
		}
	}
	t.Fatalf("message %s not found in %s", messageID, channelID)
	return nil
}

func overwrite(ch *discordgo.Channel, id string) *discordgo.PermissionOverwrite {
	for _, ow := range ch.PermissionOverwrites {
		if ow.ID == id {
			return ow
		}
	}
	return nil
}

func buttonIDs(m *discordgo.Message) []string {
	ids := make([]string, 0)
	for _, c := range m.Components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, b := range row.Components {
			if button, ok := b.(discordgo.Button); ok {
				ids = append(ids, button.CustomID)
			}
		}
	}
	return ids
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tk := f.create(t, owner)

	require.Equal(t, entities.TicketOpen, tk.State)
	require.Equal(t, "alice", tk.OwnerName)
	require.Equal(t, entities.TicketID(tk.Number), tk.ID)

	ch := f.channel(t, tk.ChannelID)
	require.Equal(t, "ticket-alice", ch.Name)
	require.Equal(t, "open", ch.ParentID)
	require.Len(t, ch.PermissionOverwrites, 4)

	everyone := overwrite(ch, guildID)
	require.NotNil(t, everyone)
	require.Equal(t, entities.PermissionBits(entities.AllCapabilities), everyone.Deny)
	require.NotNil(t, overwrite(ch, platformtest.BotID))
	require.Equal(t, entities.PermissionBits(entities.DefaultOwnerCapabilities), overwrite(ch, owner.UserID).Allow)
	require.Equal(t, entities.PermissionBits(entities.DefaultStaffCapabilities), overwrite(ch, "staff").Allow)

	stored := f.stored(t, tk.ID)
	require.NotEmpty(t, stored.WelcomeMessageID)
	welcome := f.message(t, tk.ChannelID, stored.WelcomeMessageID)
	require.Equal(t, "<@u1> <@&staff>", welcome.Content)
	require.Equal(t, []string{"ticket:close:" + tk.ID, "ticket:claim:" + tk.ID}, buttonIDs(welcome))

	p, err := f.panels.GetPanel(ctx, f.panel.ID)
	require.NoError(t, err)
	require.Equal(t, 1, p.TicketsCreated)

	logs := f.s.MessagesIn("logs")
	require.Len(t, logs, 1)
	require.Equal(t, "Ticket opened", logs[0].Embeds[0].Title)
}

func TestCreate_PanelCapabilities(t *testing.T) {
	f := newFixture(t, func(p *entities.Panel) {
		p.OwnerPermissions = []entities.Capability{entities.CapViewChannel, entities.CapAttachFiles}
		p.StaffPermissions = []entities.Capability{entities.CapViewChannel, entities.CapMentionEveryone}
	})

	tk := f.create(t, owner)
	ch := f.channel(t, tk.ChannelID)

	require.Equal(t, int64(discordgo.PermissionViewChannel|discordgo.PermissionAttachFiles), overwrite(ch, owner.UserID).Allow)
	require.Equal(t, int64(discordgo.PermissionViewChannel|discordgo.PermissionMentionEveryone), overwrite(ch, "staff").Allow)
}

func TestCreate_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("second open ticket", func(t *testing.T) {
		f := newFixture(t)
		first := f.create(t, owner)

		_, err := f.h.Create(ctx, owner, guildID, f.panel.ID, nil)
		requireKind(t, err, apperr.KindStateConflict)
		require.Contains(t, err.Error(), first.ChannelID)

		// Closing the first ticket allows a new one.
		_, err = f.h.Close(ctx, owner, first.ID)
		require.NoError(t, err)
		f.create(t, owner)
	})

	t.Run("disabled panel", func(t *testing.T) {
		f := newFixture(t, func(p *entities.Panel) { p.Enabled = false })
		_, err := f.h.Create(ctx, owner, guildID, f.panel.ID, nil)
		requireKind(t, err, apperr.KindStateConflict)
	})

	t.Run("panel of another guild", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.h.Create(ctx, owner, "g2", f.panel.ID, nil)
		requireKind(t, err, apperr.KindNotFound)
	})

	t.Run("channel creation fails", func(t *testing.T) {
		f := newFixture(t)
		f.s.Fail("CreateChannel", errors.New("missing access"))

		_, err := f.h.Create(ctx, owner, guildID, f.panel.ID, nil)
		require.Error(t, err)
		require.Equal(t, apperr.KindUnexpected, apperr.KindOf(err))

		_, err = f.tickets.FindOpenTicket(ctx, owner.UserID, f.panel.ID)
		require.ErrorIs(t, err, dataaccess.ErrNotFound)
	})
}

// stuckCounter is a PanelDal whose updates always fail.
type stuckCounter struct {
	dataaccess.PanelDal
}

func (stuckCounter) UpdatePanel(context.Context, string, func(p *entities.Panel) error) (*entities.Panel, error) {
	return nil, errors.New("connection reset")
}

func TestCreate_CounterFailureIsWarning(t *testing.T) {
	f := newFixture(t)
	f.h.panels = stuckCounter{PanelDal: f.panels}

	res, err := f.h.Create(context.Background(), owner, guildID, f.panel.ID, nil)
	require.NoError(t, err)
	require.True(t, res.Committed)
	require.Equal(t, []string{"The ticket counter of the panel could not be updated."}, res.Warnings)

	stored := f.stored(t, res.Ticket.ID)
	require.NotEmpty(t, stored.WelcomeMessageID)
	require.NotNil(t, f.message(t, stored.ChannelID, stored.WelcomeMessageID))
}

func TestCreate_CounterUnderConcurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 12

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := Actor{UserID: fmt.Sprintf("user%d", i), Username: fmt.Sprintf("user%d", i)}
			res, err := f.h.Create(ctx, actor, guildID, f.panel.ID, nil)
			if !assertNoError(t, err) {
				return
			}
			mu.Lock()
			ids[res.Ticket.ID] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	require.Len(t, ids, n)
	p, err := f.panels.GetPanel(ctx, f.panel.ID)
	require.NoError(t, err)
	require.Equal(t, n, p.TicketsCreated)
}

func TestCreate_OneOpenTicketPerOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.h.Create(ctx, owner, guildID, f.panel.ID, nil)
			mu.Lock()
			defer mu.Unlock()
			switch apperr.KindOf(err) {
			case apperr.KindStateConflict:
				conflicts++
			default:
				if err == nil {
					created++
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, 7, conflicts)

	p, err := f.panels.GetPanel(ctx, f.panel.ID)
	require.NoError(t, err)
	require.Equal(t, 1, p.TicketsCreated)
}

func assertNoError(t *testing.T, err error) bool {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
		return false
	}
	return true
}

func TestClose_ReopenRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)
	welcomeID := f.stored(t, tk.ID).WelcomeMessageID

	res, err := f.h.Close(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.True(t, res.Committed)
	require.Empty(t, res.Warnings)

	closed := f.stored(t, tk.ID)
	require.Equal(t, entities.TicketClosed, closed.State)
	require.Equal(t, staff.UserID, closed.ClosedBy)
	require.False(t, closed.ClosedAt.IsZero())
	require.NotEmpty(t, closed.CloseMessageID)

	ch := f.channel(t, tk.ChannelID)
	require.Equal(t, "closed-ticket-alice", ch.Name)
	require.Equal(t, "closed", ch.ParentID)
	require.Nil(t, overwrite(ch, owner.UserID))

	welcome := f.message(t, tk.ChannelID, welcomeID)
	require.Equal(t, []string{"ticket:reopen:" + tk.ID, "ticket:transcript:" + tk.ID}, buttonIDs(welcome))
	require.Equal(t, "Support • Closed by Bob", welcome.Embeds[0].Footer.Text)
	require.Equal(t, []string{"ticket:delete:" + tk.ID}, buttonIDs(f.message(t, tk.ChannelID, closed.CloseMessageID)))

	res, err = f.h.Reopen(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.True(t, res.Committed)
	require.Empty(t, res.Warnings)

	reopened := f.stored(t, tk.ID)
	require.Equal(t, entities.TicketOpen, reopened.State)
	require.True(t, reopened.ClosedAt.IsZero())
	require.Empty(t, reopened.CloseMessageID)
	require.Empty(t, reopened.ClosedBy)
	require.Equal(t, welcomeID, reopened.WelcomeMessageID)

	ch = f.channel(t, tk.ChannelID)
	require.Equal(t, "ticket-alice", ch.Name)
	require.Equal(t, "open", ch.ParentID)
	require.NotNil(t, overwrite(ch, owner.UserID))

	welcome = f.message(t, tk.ChannelID, welcomeID)
	require.Equal(t, []string{"ticket:close:" + tk.ID, "ticket:claim:" + tk.ID}, buttonIDs(welcome))
	require.Equal(t, "Support", welcome.Embeds[0].Footer.Text)

	for _, m := range f.s.MessagesIn(tk.ChannelID) {
		require.NotEqual(t, closed.CloseMessageID, m.ID, "close message is removed on reopen")
	}
}

func TestClose_BackgroundWork(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)

	_, err := f.h.Close(context.Background(), owner, tk.ID)
	require.NoError(t, err)
	f.h.Wait()

	for _, m := range f.s.MessagesIn(tk.ChannelID) {
		require.NotEqual(t, "Closing ticket...", m.Content)
	}

	archived := f.s.MessagesIn("tx")
	require.Len(t, archived, 1)
	require.Len(t, archived[0].Attachments, 1)
	require.Equal(t, fmt.Sprintf("transcript-%d.html", tk.Number), archived[0].Attachments[0].Filename)

	dms := f.s.DirectMessages(owner.UserID)
	require.Len(t, dms, 1)
	require.Len(t, dms[0].Attachments, 1)

	// Automatic transcripts are not sent to the logs channel.
	for _, m := range f.s.MessagesIn("logs") {
		require.Empty(t, m.Attachments)
	}
}

func TestClose_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("already closed", func(t *testing.T) {
		f := newFixture(t)
		tk := f.create(t, owner)
		_, err := f.h.Close(ctx, staff, tk.ID)
		require.NoError(t, err)

		_, err = f.h.Close(ctx, staff, tk.ID)
		requireKind(t, err, apperr.KindStateConflict)
		require.Contains(t, err.Error(), "already closed")
	})

	t.Run("owner without owner close", func(t *testing.T) {
		f := newFixture(t, func(p *entities.Panel) { p.OwnerCanClose = false })
		tk := f.create(t, owner)

		_, err := f.h.Close(ctx, owner, tk.ID)
		requireKind(t, err, apperr.KindPermissionDenied)

		_, err = f.h.Close(ctx, admin, tk.ID)
		require.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture(t)
		tk := f.create(t, owner)

		_, err := f.h.Close(ctx, other, tk.ID)
		requireKind(t, err, apperr.KindPermissionDenied)
		require.Equal(t, entities.TicketOpen, f.stored(t, tk.ID).State)
	})

	t.Run("missing ticket", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.h.Close(ctx, staff, entities.TicketID(9999))
		requireKind(t, err, apperr.KindNotFound)
	})
}

func TestClose_SideEffectFailuresStillCommit(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(s *platformtest.Session)
		warnings []string
	}{
		{
			name:     "rename fails",
			setup:    func(s *platformtest.Session) { s.Fail("RenameChannel", errors.New("rate limited")) },
			warnings: []string{"The channel could not be renamed."},
		},
		{
			name:     "rename times out",
			setup:    func(s *platformtest.Session) { s.Delay("RenameChannel", time.Second) },
			warnings: []string{"The channel could not be renamed."},
		},
		{
			name: "rename and move fail",
			setup: func(s *platformtest.Session) {
				s.Fail("RenameChannel", errors.New("rate limited"))
				s.Fail("MoveChannel", errors.New("rate limited"))
			},
			warnings: []string{
				"The channel could not be renamed.",
				"The channel could not be moved to the closed category.",
			},
		},
		{
			name:     "welcome message edit fails",
			setup:    func(s *platformtest.Session) { s.Fail("EditMessage", errors.New("boom")) },
			warnings: []string{"The ticket buttons could not be updated."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tk := f.create(t, owner)
			tt.setup(f.s)

			res, err := f.h.Close(context.Background(), staff, tk.ID)
			require.NoError(t, err)
			require.True(t, res.Committed)
			require.Equal(t, tt.warnings, res.Warnings)
			require.Equal(t, entities.TicketClosed, f.stored(t, tk.ID).State)

			msg := res.Message("Ticket closed successfully.")
			require.True(t, strings.HasPrefix(msg, "Ticket closed successfully.\n"+WarningEmoji))
		})
	}
}

func TestReopen_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("already open", func(t *testing.T) {
		f := newFixture(t)
		tk := f.create(t, owner)
		_, err := f.h.Reopen(ctx, staff, tk.ID)
		requireKind(t, err, apperr.KindStateConflict)
	})

	t.Run("owner has another open ticket", func(t *testing.T) {
		f := newFixture(t)
		first := f.create(t, owner)
		_, err := f.h.Close(ctx, staff, first.ID)
		require.NoError(t, err)
		f.create(t, owner)

		_, err = f.h.Reopen(ctx, staff, first.ID)
		requireKind(t, err, apperr.KindStateConflict)
		require.Equal(t, entities.TicketClosed, f.stored(t, first.ID).State)
	})
}

func TestClaim_UnclaimRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)
	before := f.channel(t, tk.ChannelID).Name

	res, err := f.h.Claim(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	require.Equal(t, staff.UserID, f.stored(t, tk.ID).ClaimedBy)
	require.Equal(t, "claimed-bob", f.channel(t, tk.ChannelID).Name)

	welcome := f.message(t, tk.ChannelID, f.stored(t, tk.ID).WelcomeMessageID)
	require.Contains(t, buttonIDs(welcome), "ticket:unclaim:"+tk.ID)

	_, err = f.h.Claim(ctx, admin, tk.ID)
	requireKind(t, err, apperr.KindStateConflict)

	_, err = f.h.Unclaim(ctx, Actor{UserID: "s2", Username: "Carol", RoleIDs: []string{"staff"}}, tk.ID)
	requireKind(t, err, apperr.KindPermissionDenied)

	_, err = f.h.Unclaim(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.Empty(t, f.stored(t, tk.ID).ClaimedBy)
	require.Equal(t, before, f.channel(t, tk.ChannelID).Name)

	_, err = f.h.Unclaim(ctx, staff, tk.ID)
	requireKind(t, err, apperr.KindStateConflict)
}

func TestClaim_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("not staff", func(t *testing.T) {
		f := newFixture(t)
		tk := f.create(t, owner)
		_, err := f.h.Claim(ctx, owner, tk.ID)
		requireKind(t, err, apperr.KindPermissionDenied)
	})

	t.Run("not claimable", func(t *testing.T) {
		f := newFixture(t, func(p *entities.Panel) { p.Claimable = false })
		tk := f.create(t, owner)
		_, err := f.h.Claim(ctx, staff, tk.ID)
		requireKind(t, err, apperr.KindValidation)

		welcome := f.message(t, tk.ChannelID, f.stored(t, tk.ID).WelcomeMessageID)
		require.Equal(t, []string{"ticket:close:" + tk.ID}, buttonIDs(welcome))
	})

	t.Run("rename failure is a warning", func(t *testing.T) {
		f := newFixture(t)
		tk := f.create(t, owner)
		f.s.Fail("RenameChannel", errors.New("rate limited"))

		res, err := f.h.Claim(ctx, staff, tk.ID)
		require.NoError(t, err)
		require.True(t, res.Committed)
		require.Equal(t, []string{"The channel could not be renamed."}, res.Warnings)
		require.Equal(t, staff.UserID, f.stored(t, tk.ID).ClaimedBy)
	})
}

func TestClaim_ClosedTicketKeepsClosedPrefix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)
	_, err := f.h.Close(ctx, staff, tk.ID)
	require.NoError(t, err)

	_, err = f.h.Claim(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.Equal(t, "closed-claimed-bob", f.channel(t, tk.ChannelID).Name)

	_, err = f.h.Reopen(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.Equal(t, "claimed-bob", f.channel(t, tk.ChannelID).Name)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)

	_, err := f.h.Delete(ctx, owner, tk.ID)
	requireKind(t, err, apperr.KindPermissionDenied)

	res, err := f.h.Delete(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.True(t, res.Committed)
	require.Nil(t, f.s.ChannelByID(tk.ChannelID))

	_, err = f.tickets.GetTicket(ctx, tk.ID)
	require.ErrorIs(t, err, dataaccess.ErrNotFound)

	logs := f.s.MessagesIn("logs")
	require.Equal(t, "Ticket deleted", logs[len(logs)-1].Embeds[0].Title)
}

func TestDelete_ChannelAlreadyGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)
	require.NoError(t, f.s.DeleteChannel(ctx, tk.ChannelID))

	res, err := f.h.Delete(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)

	_, err := f.h.Rename(ctx, owner, tk.ID, "anything")
	requireKind(t, err, apperr.KindPermissionDenied)

	_, err = f.h.Rename(ctx, staff, tk.ID, "!!!")
	requireKind(t, err, apperr.KindValidation)

	res, err := f.h.Rename(ctx, staff, tk.ID, "Printer Issue")
	require.NoError(t, err)
	require.True(t, res.Committed)
	require.Equal(t, "printer-issue", f.channel(t, tk.ChannelID).Name)

	f.s.Fail("RenameChannel", errors.New("rate limited"))
	res, err = f.h.Rename(ctx, staff, tk.ID, "other")
	require.NoError(t, err)
	require.False(t, res.Committed)
	require.Len(t, res.Warnings, 1)
}

func TestAddUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)
	f.s.AddMember(guildID, "u3", "dave")

	_, err := f.h.AddUser(ctx, staff, tk.ID, owner.UserID)
	requireKind(t, err, apperr.KindStateConflict)

	_, err = f.h.AddUser(ctx, staff, tk.ID, "ghost")
	requireKind(t, err, apperr.KindNotFound)

	res, err := f.h.AddUser(ctx, staff, tk.ID, "u3")
	require.NoError(t, err)
	require.True(t, res.Committed)

	ow := overwrite(f.channel(t, tk.ChannelID), "u3")
	require.NotNil(t, ow)
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, ow.Type)
	require.Equal(t, entities.PermissionBits(entities.DefaultOwnerCapabilities), ow.Allow)
}

func TestClearUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, owner)
	_, err := f.h.Close(ctx, owner, first.ID)
	require.NoError(t, err)
	f.h.Wait()
	second := f.create(t, owner)
	kept := f.create(t, other)

	_, err = f.h.ClearUser(ctx, staff, guildID, owner.UserID)
	requireKind(t, err, apperr.KindPermissionDenied)

	res, err := f.h.ClearUser(ctx, admin, guildID, owner.UserID)
	require.NoError(t, err)
	require.Equal(t, 2, res.Cleared)
	require.Nil(t, f.s.ChannelByID(first.ChannelID))
	require.Nil(t, f.s.ChannelByID(second.ChannelID))
	require.NotNil(t, f.s.ChannelByID(kept.ChannelID))

	left, err := f.tickets.ListUserTickets(ctx, guildID, owner.UserID)
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestTranscript(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.create(t, owner)
	f.s.Post(tk.ChannelID, owner.UserID, "my printer is on fire")

	_, err := f.h.Transcript(ctx, other, tk.ID)
	requireKind(t, err, apperr.KindPermissionDenied)

	res, err := f.h.Transcript(ctx, staff, tk.ID)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	require.NotNil(t, res.Archive)
	require.Contains(t, string(res.Archive.Data), "my printer is on fire")

	for _, channelID := range []string{"tx", "logs"} {
		var attached int
		for _, m := range f.s.MessagesIn(channelID) {
			attached += len(m.Attachments)
		}
		require.Equal(t, 1, attached, channelID)
	}
	require.Len(t, f.s.DirectMessages(owner.UserID), 1)
}

func TestTranscript_DeliveryFailuresAreWarnings(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)
	f.s.Fail("DirectChannel", errors.New("cannot send messages to this user"))

	res, err := f.h.Transcript(context.Background(), owner, tk.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"The transcript could not be sent to the owner."}, res.Warnings)
	require.Len(t, f.s.MessagesIn("tx"), 1)
}

func TestTranscript_EveryDeliveryFails(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)
	f.s.Fail("SendMessage", errors.New("missing access"))
	partial := transcriptsTotal.WithLabelValues(triggerManual, outcomePartial)
	before := testutil.ToFloat64(partial)

	res, err := f.h.Transcript(context.Background(), staff, tk.ID)
	require.NoError(t, err)
	require.True(t, res.Committed)
	require.NotNil(t, res.Archive)
	require.Equal(t, []string{
		"The transcript could not be sent to the logs channel.",
		"The transcript could not be sent to the owner.",
		"The transcript could not be sent to the transcript channel.",
	}, res.Warnings)
	require.Equal(t, before+1, testutil.ToFloat64(partial))
}

func TestTranscript_RenderFailure(t *testing.T) {
	f := newFixture(t)
	tk := f.create(t, owner)
	f.s.Fail("Messages", errors.New("boom"))

	_, err := f.h.Transcript(context.Background(), staff, tk.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindUnexpected, apperr.KindOf(err))
}

func TestActor(t *testing.T) {
	p := &entities.Panel{StaffRoleID: "staff"}

	require.True(t, staff.IsStaff(p))
	require.True(t, admin.IsStaff(p))
	require.True(t, Actor{Permissions: discordgo.PermissionManageChannels}.IsStaff(p))
	require.False(t, owner.IsStaff(p))
	require.False(t, owner.IsStaff(&entities.Panel{}))

	ix := platform.NewInteraction(platformtest.New(), platformtest.Invoker{
		GuildID: guildID, UserID: "s1", Username: "Bob", Roles: []string{"staff"},
	}.Button("ticket:claim:ticket:1001"))
	require.Equal(t, staff, ActorFrom(ix))
}
