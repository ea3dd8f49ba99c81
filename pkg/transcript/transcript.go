// Package transcript archives the message history of a ticket channel.
package transcript

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

// pageSize is the largest history page the platform returns.
const pageSize = 100

// Metadata describes the ticket being archived.
type Metadata struct {
	TicketID     string
	TicketNumber int
	GuildID      string
	OwnerID      string
	OwnerName    string
	StaffRoleID  string
	PanelName    string
	ClaimedBy    string
	ClosedBy     string
	CreatedAt    time.Time
	ClosedAt     time.Time
}

// Result is a rendered archive.
type Result struct {
	// Name is the file name of the archive.
	Name string

	// Data is the archive content.
	Data []byte

	// Summary describes the archive for posting alongside it.
	Summary *discordgo.MessageEmbed

	// MessageCount is the number of archived messages.
	MessageCount int
}

// Renderer turns the full history of a channel into an archive.
type Renderer interface {
	Render(ctx context.Context, channelID string, meta Metadata) (*Result, error)
}

// History returns every message of a channel, oldest first.
func History(ctx context.Context, s platform.Session, channelID string) ([]*discordgo.Message, error) {
	all := make([]*discordgo.Message, 0, pageSize)
	before := ""
	for {
		page, err := s.Messages(ctx, channelID, pageSize, before)
		if err != nil {
			return nil, fmt.Errorf("error fetching messages: %w", err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
		before = page[len(page)-1].ID
	}

	// Pages arrive newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// File returns the archive as an upload.
func (r *Result) File() *discordgo.File {
	return &discordgo.File{
		Name:        r.Name,
		ContentType: "text/html",
		Reader:      bytes.NewReader(r.Data),
	}
}
