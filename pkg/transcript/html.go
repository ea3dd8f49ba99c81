package transcript

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	userMention    = regexp.MustCompile(`<@!?(\d+)>`)
	roleMention    = regexp.MustCompile(`<@&(\d+)>`)
	channelMention = regexp.MustCompile(`<#(\d+)>`)
	customEmoji    = regexp.MustCompile(`<a?:(\w+):\d+>`)
)

// HTML renders transcripts as a single self-contained HTML page.
type HTML struct {
	l    *slog.Logger
	s    platform.Session
	md   goldmark.Markdown
	page *template.Template
}

// NewHTML creates a new HTML renderer.
func NewHTML(l *slog.Logger, s platform.Session) *HTML {
	return &HTML{
		l: l,
		s: s,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		page: template.Must(template.New("transcript").Parse(pageTemplate)),
	}
}

type pageData struct {
	Title     string
	Meta      Metadata
	Generated string
	Messages  []messageView
}

type messageView struct {
	ID          string
	Author      string
	Bot         bool
	Timestamp   string
	Content     template.HTML
	Attachments []*discordgo.MessageAttachment
	Embeds      []embedView
	Reactions   []reactionView
}

type embedView struct {
	Title       string
	Description template.HTML
	Color       string
	Fields      []*discordgo.MessageEmbedField
	Footer      string
}

type reactionView struct {
	Emoji string
	Count int
}

func (h *HTML) Render(ctx context.Context, channelID string, meta Metadata) (*Result, error) {
	msgs, err := History(ctx, h.s, channelID)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Title:     fmt.Sprintf("Ticket #%d", meta.TicketNumber),
		Meta:      meta,
		Generated: time.Now().UTC().Format(time.RFC1123),
		Messages:  make([]messageView, 0, len(msgs)),
	}

	participants := make(map[string]bool)
	for _, m := range msgs {
		view, err := h.message(m)
		if err != nil {
			h.l.Warn("Error rendering message", slog.String("message_id", m.ID), logging.ErrAttr(err))
			continue
		}
		if m.Author != nil {
			participants[m.Author.ID] = true
		}
		data.Messages = append(data.Messages, view)
	}

	buf := new(bytes.Buffer)
	if err := h.page.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("error executing transcript template: %w", err)
	}

	return &Result{
		Name:         fmt.Sprintf("transcript-%d.html", meta.TicketNumber),
		Data:         buf.Bytes(),
		Summary:      summary(meta, len(msgs), len(participants)),
		MessageCount: len(msgs),
	}, nil
}

func (h *HTML) message(m *discordgo.Message) (messageView, error) {
	content, err := h.markdown(m.Content, m.Mentions)
	if err != nil {
		return messageView{}, err
	}

	view := messageView{
		ID:          m.ID,
		Author:      "Unknown",
		Timestamp:   m.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		Content:     content,
		Attachments: m.Attachments,
	}
	if m.Author != nil {
		view.Author = m.Author.Username
		view.Bot = m.Author.Bot
	}

	for _, e := range m.Embeds {
		desc, err := h.markdown(e.Description, m.Mentions)
		if err != nil {
			return messageView{}, err
		}
		ev := embedView{
			Title:       e.Title,
			Description: desc,
			Color:       fmt.Sprintf("#%06x", e.Color),
			Fields:      e.Fields,
		}
		if e.Footer != nil {
			ev.Footer = e.Footer.Text
		}
		view.Embeds = append(view.Embeds, ev)
	}

	for _, r := range m.Reactions {
		if r.Emoji == nil {
			continue
		}
		name := r.Emoji.Name
		if r.Emoji.ID != "" {
			name = ":" + name + ":"
		}
		view.Reactions = append(view.Reactions, reactionView{Emoji: name, Count: r.Count})
	}
	return view, nil
}

// markdown renders message markdown. Raw HTML in the source is omitted by goldmark.
func (h *HTML) markdown(src string, mentions []*discordgo.User) (template.HTML, error) {
	if src == "" {
		return "", nil
	}

	names := make(map[string]string, len(mentions))
	for _, u := range mentions {
		names[u.ID] = u.Username
	}

	src = userMention.ReplaceAllStringFunc(src, func(s string) string {
		id := userMention.FindStringSubmatch(s)[1]
		if name, ok := names[id]; ok {
			return "@" + name
		}
		return "@" + id
	})
	src = roleMention.ReplaceAllString(src, "@role-$1")
	src = channelMention.ReplaceAllString(src, "#$1")
	src = customEmoji.ReplaceAllString(src, ":$1:")

	buf := new(bytes.Buffer)
	if err := h.md.Convert([]byte(src), buf); err != nil {
		return "", fmt.Errorf("error converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func summary(meta Metadata, messages, participants int) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Owner", Value: mention(meta.OwnerID), Inline: true},
		{Name: "Panel", Value: orNone(meta.PanelName), Inline: true},
		{Name: "Messages", Value: strconv.Itoa(messages), Inline: true},
		{Name: "Participants", Value: strconv.Itoa(participants), Inline: true},
	}
	if meta.ClaimedBy != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Claimed by", Value: mention(meta.ClaimedBy), Inline: true})
	}
	if meta.ClosedBy != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Closed by", Value: mention(meta.ClosedBy), Inline: true})
	}
	if !meta.CreatedAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Opened", Value: stamp(meta.CreatedAt), Inline: true})
	}
	if !meta.ClosedAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Closed", Value: stamp(meta.ClosedAt), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Transcript for ticket #%d", meta.TicketNumber),
		Color:  0x5865F2,
		Fields: fields,
	}
}

func mention(userID string) string {
	if userID == "" {
		return "None"
	}
	return "<@" + userID + ">"
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func stamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:f>", t.Unix())
}
