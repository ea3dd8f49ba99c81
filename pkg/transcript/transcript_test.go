package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform/platformtest"
	"github.com/stretchr/testify/require"
)

func TestHistory_PaginatesOldestFirst(t *testing.T) {
	s := platformtest.New()
	s.AddChannel("g1", "c1", "ticket-alice", discordgo.ChannelTypeGuildText, "")
	for i := 0; i < 250; i++ {
		s.Post("c1", "u1", fmt.Sprintf("message %d", i))
	}

	msgs, err := History(context.Background(), s, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 250)
	require.Equal(t, "message 0", msgs[0].Content)
	require.Equal(t, "message 249", msgs[249].Content)
	require.Equal(t, 3, s.Calls("Messages"))
}

func TestHistory_MissingChannel(t *testing.T) {
	s := platformtest.New()

	_, err := History(context.Background(), s, "gone")
	require.Error(t, err)
}

func TestHTML_Render(t *testing.T) {
	s := platformtest.New()
	s.AddChannel("g1", "c1", "ticket-alice", discordgo.ChannelTypeGuildText, "")
	s.Post("c1", "u1", "my **printer** is on fire <script>alert(1)</script>")
	s.Post("c1", "u2", "hello <@u1>, see <#c9>")
	_, err := s.SendMessage(context.Background(), "c1", &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Welcome",
			Description: "Staff will be with you shortly",
			Footer:      &discordgo.MessageEmbedFooter{Text: "Closed by bob"},
		}},
		Files: []*discordgo.File{{Name: "log.txt"}},
	})
	require.NoError(t, err)

	r := NewHTML(slog.Default(), s)
	res, err := r.Render(context.Background(), "c1", Metadata{
		TicketNumber: 1002,
		OwnerID:      "u1",
		OwnerName:    "alice",
		PanelName:    "Support",
		ClosedBy:     "u2",
		CreatedAt:    time.Now().Add(-time.Hour),
		ClosedAt:     time.Now(),
	})
	require.NoError(t, err)

	require.Equal(t, "transcript-1002.html", res.Name)
	require.Equal(t, 3, res.MessageCount)

	page := string(res.Data)
	require.Contains(t, page, "<strong>printer</strong>")
	require.NotContains(t, page, "<script>alert(1)</script>")
	require.Contains(t, page, "Staff will be with you shortly")
	require.Contains(t, page, "Closed by bob")
	require.Contains(t, page, "log.txt")
	require.Contains(t, page, "Support")
	require.Less(t, strings.Index(page, "printer"), strings.Index(page, "Welcome"))

	require.Equal(t, "Transcript for ticket #1002", res.Summary.Title)
	fields := make(map[string]string)
	for _, f := range res.Summary.Fields {
		fields[f.Name] = f.Value
	}
	require.Equal(t, "<@u1>", fields["Owner"])
	require.Equal(t, "3", fields["Messages"])
	require.Equal(t, "3", fields["Participants"])
	require.Equal(t, "<@u2>", fields["Closed by"])

	data, err := io.ReadAll(res.File().Reader)
	require.NoError(t, err)
	require.Equal(t, res.Data, data)
}

func TestHTML_Markdown(t *testing.T) {
	r := NewHTML(slog.Default(), platformtest.New())

	tests := []struct {
		name     string
		src      string
		mentions []*discordgo.User
		want     string
	}{
		{
			name:     "known user mention",
			src:      "hi <@!42>",
			mentions: []*discordgo.User{{ID: "42", Username: "bob"}},
			want:     "@bob",
		},
		{
			name: "unknown user mention",
			src:  "hi <@42>",
			want: "@42",
		},
		{
			name: "custom emoji",
			src:  "thanks <a:wolf:123>",
			want: ":wolf:",
		},
		{
			name: "role mention",
			src:  "<@&7> please help",
			want: "@role-7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.markdown(tt.src, tt.mentions)
			require.NoError(t, err)
			require.Contains(t, string(got), tt.want)
		})
	}
}
