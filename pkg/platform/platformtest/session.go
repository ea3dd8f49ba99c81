// Package platformtest provides an in-memory platform.Session for tests.
package platformtest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

// BotID is the user id of the fake bot.
const BotID = "100"

// Response is one recorded interaction response.
type Response struct {
	// Method is one of "respond", "edit" or "followup".
	Method        string
	InteractionID string
	Type          discordgo.InteractionResponseType
	Data          *discordgo.InteractionResponseData
}

// Session is an in-memory platform.Session. Every exported method is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	seq         int
	channels    map[string]*discordgo.Channel
	messages    map[string][]*discordgo.Message
	members     map[string]*discordgo.Member
	roles       map[string][]*discordgo.Role
	emojis      map[string][]*discordgo.Emoji
	emojiImages map[string]string
	dms         map[string]string
	responses   []Response
	calls       map[string]int
	failures    map[string]error
	delays      map[string]time.Duration
}

var _ platform.Session = (*Session)(nil)

// New creates an empty fake session.
func New() *Session {
	return &Session{
		seq:         1000,
		channels:    make(map[string]*discordgo.Channel),
		messages:    make(map[string][]*discordgo.Message),
		members:     make(map[string]*discordgo.Member),
		roles:       make(map[string][]*discordgo.Role),
		emojis:      make(map[string][]*discordgo.Emoji),
		emojiImages: make(map[string]string),
		dms:         make(map[string]string),
		calls:       make(map[string]int),
		failures:    make(map[string]error),
		delays:      make(map[string]time.Duration),
	}
}

// Fail makes every later call to method return err. A nil err clears the failure.
func (s *Session) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// Delay makes every later call to method block for d, or until its context is done.
func (s *Session) Delay(method string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[method] = d
}

// Calls returns how many times method has been called.
func (s *Session) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// AddChannel registers a channel.
func (s *Session) AddChannel(guildID, id, name string, typ discordgo.ChannelType, parentID string) *discordgo.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := &discordgo.Channel{
		ID:       id,
		GuildID:  guildID,
		Name:     name,
		Type:     typ,
		ParentID: parentID,
	}
	s.channels[id] = ch
	return ch
}

// AddMember registers a guild member.
func (s *Session) AddMember(guildID, userID, username string, roles ...string) *discordgo.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID, Username: username},
		Roles:   roles,
	}
	s.members[guildID+":"+userID] = m
	return m
}

// AddRole registers a guild role.
func (s *Session) AddRole(guildID, id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[guildID] = append(s.roles[guildID], &discordgo.Role{ID: id, Name: name})
}

// AddEmoji registers a custom emoji in a guild.
func (s *Session) AddEmoji(guildID, id, name string, animated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emojis[guildID] = append(s.emojis[guildID], &discordgo.Emoji{ID: id, Name: name, Animated: animated})
	s.emojiImages[id] = "data:image/png;base64,ZW1vamk="
}

// ChannelByID returns a copy of a channel, or nil.
func (s *Session) ChannelByID(id string) *discordgo.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	if !ok {
		return nil
	}
	cp := *ch
	cp.PermissionOverwrites = append([]*discordgo.PermissionOverwrite(nil), ch.PermissionOverwrites...)
	return &cp
}

// ChannelsIn returns the channels of a guild ordered by id.
func (s *Session) ChannelsIn(guildID string) []*discordgo.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guildChannels(guildID)
}

// MessagesIn returns the messages of a channel, oldest first.
func (s *Session) MessagesIn(channelID string) []*discordgo.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*discordgo.Message(nil), s.messages[channelID]...)
}

// DirectMessages returns the messages sent to a user in private.
func (s *Session) DirectMessages(userID string) []*discordgo.Message {
	s.mu.Lock()
	id, ok := s.dms[userID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.MessagesIn(id)
}

// Responses returns every interaction response recorded so far.
func (s *Session) Responses() []Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Response(nil), s.responses...)
}

// LastResponse returns the latest interaction response, or the zero Response.
func (s *Session) LastResponse() Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.responses) == 0 {
		return Response{}
	}
	return s.responses[len(s.responses)-1]
}

// Post adds a message to a channel as if a user had sent it.
func (s *Session) Post(channelID, authorID, content string) *discordgo.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &discordgo.Message{
		ID:        s.nextID(),
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "user" + authorID},
		Timestamp: time.Now(),
	}
	if ch, ok := s.channels[channelID]; ok {
		m.GuildID = ch.GuildID
	}
	s.messages[channelID] = append(s.messages[channelID], m)
	return m
}

func (s *Session) nextID() string {
	s.seq++
	return strconv.Itoa(s.seq)
}

func (s *Session) guildChannels(guildID string) []*discordgo.Channel {
	out := make([]*discordgo.Channel, 0)
	for _, ch := range s.channels {
		if ch.GuildID == guildID {
			cp := *ch
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// enter records the call and applies the configured delay and failure.
func (s *Session) enter(ctx context.Context, method string) error {
	s.mu.Lock()
	s.calls[method]++
	delay := s.delays[method]
	failure := s.failures[method]
	s.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return failure
}

func (s *Session) BotUserID() string {
	return BotID
}

func (s *Session) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if err := s.enter(ctx, "Channel"); err != nil {
		return nil, err
	}
	ch := s.ChannelByID(channelID)
	if ch == nil {
		return nil, platform.ErrNotFound
	}
	return ch, nil
}

func (s *Session) GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	if err := s.enter(ctx, "GuildChannels"); err != nil {
		return nil, err
	}
	return s.ChannelsIn(guildID), nil
}

func (s *Session) GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if err := s.enter(ctx, "GuildRoles"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*discordgo.Role(nil), s.roles[guildID]...), nil
}

func (s *Session) GuildEmojis(ctx context.Context, guildID string) ([]*discordgo.Emoji, error) {
	if err := s.enter(ctx, "GuildEmojis"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*discordgo.Emoji(nil), s.emojis[guildID]...), nil
}

func (s *Session) CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	if err := s.enter(ctx, "CreateChannel"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := &discordgo.Channel{
		ID:                   s.nextID(),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		ParentID:             data.ParentID,
		PermissionOverwrites: append([]*discordgo.PermissionOverwrite(nil), data.PermissionOverwrites...),
	}
	s.channels[ch.ID] = ch
	cp := *ch
	return &cp, nil
}

func (s *Session) DeleteChannel(ctx context.Context, channelID string) error {
	if err := s.enter(ctx, "DeleteChannel"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[channelID]; !ok {
		return platform.ErrNotFound
	}
	delete(s.channels, channelID)
	delete(s.messages, channelID)
	return nil
}

func (s *Session) editChannel(ctx context.Context, method, channelID string, fn func(ch *discordgo.Channel)) error {
	if err := s.enter(ctx, method); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return platform.ErrNotFound
	}
	fn(ch)
	return nil
}

func (s *Session) RenameChannel(ctx context.Context, channelID, name string) error {
	return s.editChannel(ctx, "RenameChannel", channelID, func(ch *discordgo.Channel) {
		ch.Name = name
	})
}

func (s *Session) MoveChannel(ctx context.Context, channelID, parentID string) error {
	return s.editChannel(ctx, "MoveChannel", channelID, func(ch *discordgo.Channel) {
		ch.ParentID = parentID
	})
}

func (s *Session) SetPermission(ctx context.Context, channelID string, ow *discordgo.PermissionOverwrite) error {
	return s.editChannel(ctx, "SetPermission", channelID, func(ch *discordgo.Channel) {
		for i, existing := range ch.PermissionOverwrites {
			if existing.ID == ow.ID {
				ch.PermissionOverwrites[i] = ow
				return
			}
		}
		ch.PermissionOverwrites = append(ch.PermissionOverwrites, ow)
	})
}

func (s *Session) DeletePermission(ctx context.Context, channelID, targetID string) error {
	return s.editChannel(ctx, "DeletePermission", channelID, func(ch *discordgo.Channel) {
		kept := ch.PermissionOverwrites[:0]
		for _, ow := range ch.PermissionOverwrites {
			if ow.ID != targetID {
				kept = append(kept, ow)
			}
		}
		ch.PermissionOverwrites = kept
	})
}

func (s *Session) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	if err := s.enter(ctx, "SendMessage"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	m := &discordgo.Message{
		ID:         s.nextID(),
		ChannelID:  channelID,
		GuildID:    ch.GuildID,
		Content:    msg.Content,
		Embeds:     msg.Embeds,
		Components: msg.Components,
		Author:     &discordgo.User{ID: BotID, Username: "wolf", Bot: true},
		Timestamp:  time.Now(),
	}
	for _, f := range msg.Files {
		m.Attachments = append(m.Attachments, &discordgo.MessageAttachment{
			ID:       s.nextID(),
			Filename: f.Name,
		})
	}
	s.messages[channelID] = append(s.messages[channelID], m)
	cp := *m
	return &cp, nil
}

func (s *Session) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	if err := s.enter(ctx, "EditMessage"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages[edit.Channel] {
		if m.ID != edit.ID {
			continue
		}
		if edit.Content != nil {
			m.Content = *edit.Content
		}
		if edit.Embeds != nil {
			m.Embeds = edit.Embeds
		}
		if edit.Components != nil {
			m.Components = edit.Components
		}
		cp := *m
		return &cp, nil
	}
	return nil, platform.ErrNotFound
}

func (s *Session) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := s.enter(ctx, "DeleteMessage"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[channelID]
	for i, m := range msgs {
		if m.ID == messageID {
			s.messages[channelID] = append(msgs[:i:i], msgs[i+1:]...)
			return nil
		}
	}
	return platform.ErrNotFound
}

func (s *Session) Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	if err := s.enter(ctx, "Message"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages[channelID] {
		if m.ID == messageID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, platform.ErrNotFound
}

func (s *Session) Messages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	if err := s.enter(ctx, "Messages"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[channelID]; !ok {
		return nil, platform.ErrNotFound
	}

	msgs := s.messages[channelID]
	end := len(msgs)
	if beforeID != "" {
		end = 0
		for i, m := range msgs {
			if m.ID == beforeID {
				end = i
				break
			}
		}
	}

	out := make([]*discordgo.Message, 0, limit)
	for i := end - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func (s *Session) CreateEmoji(ctx context.Context, guildID, name, image string) (*discordgo.Emoji, error) {
	if err := s.enter(ctx, "CreateEmoji"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &discordgo.Emoji{ID: s.nextID(), Name: name}
	s.emojis[guildID] = append(s.emojis[guildID], e)
	s.emojiImages[e.ID] = image
	return e, nil
}

func (s *Session) EmojiImage(ctx context.Context, emojiID string, _ bool) (string, error) {
	if err := s.enter(ctx, "EmojiImage"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.emojiImages[emojiID]
	if !ok {
		// Emojis from other guilds are still downloadable.
		return "data:image/png;base64,Zm9yZWlnbg==", nil
	}
	return img, nil
}

func (s *Session) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if err := s.enter(ctx, "Member"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[guildID+":"+userID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Session) DirectChannel(ctx context.Context, userID string) (*discordgo.Channel, error) {
	if err := s.enter(ctx, "DirectChannel"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.dms[userID]; ok {
		cp := *s.channels[id]
		return &cp, nil
	}
	ch := &discordgo.Channel{
		ID:   s.nextID(),
		Type: discordgo.ChannelTypeDM,
	}
	s.channels[ch.ID] = ch
	s.dms[userID] = ch.ID
	cp := *ch
	return &cp, nil
}

func (s *Session) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	if err := s.enter(ctx, "Respond"); err != nil {
		return err
	}
	s.record(Response{
		Method:        "respond",
		InteractionID: i.ID,
		Type:          resp.Type,
		Data:          resp.Data,
	})
	return nil
}

func (s *Session) EditResponse(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	if err := s.enter(ctx, "EditResponse"); err != nil {
		return err
	}
	s.record(Response{
		Method:        "edit",
		InteractionID: i.ID,
		Data:          data,
	})
	return nil
}

func (s *Session) Followup(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	if err := s.enter(ctx, "Followup"); err != nil {
		return nil, err
	}
	s.record(Response{
		Method:        "followup",
		InteractionID: i.ID,
		Data:          data,
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	return &discordgo.Message{
		ID:        s.nextID(),
		ChannelID: i.ChannelID,
		Content:   data.Content,
	}, nil
}

func (s *Session) record(r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
}

// String summarises the fake for test failure output.
func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("platformtest.Session{channels: %d, responses: %d}", len(s.channels), len(s.responses))
}
