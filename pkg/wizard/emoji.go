package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

// maxEmojiRunes bounds a unicode emoji, including joiner sequences.
const maxEmojiRunes = 10

var customEmojiPattern = regexp.MustCompile(`^<(a?):(\w{2,32}):(\d+)>$`)

// parseEmoji reads an emoji from message text. Custom emoji markup keeps its animated flag.
func parseEmoji(content string) (entities.Emoji, bool) {
	content = strings.TrimSpace(content)
	if m := customEmojiPattern.FindStringSubmatch(content); m != nil {
		return entities.Emoji{ID: m[3], Name: m[2], Animated: m[1] == "a"}, true
	}

	runes := []rune(content)
	if len(runes) == 0 || len(runes) > maxEmojiRunes {
		return entities.Emoji{}, false
	}
	for _, r := range runes {
		if r <= unicode.MaxASCII || unicode.IsLetter(r) || unicode.IsSpace(r) {
			return entities.Emoji{}, false
		}
	}
	return entities.Emoji{Name: content}, true
}

func (w *Wizard) captureEmoji(ctx context.Context, ix *platform.Interaction) error {
	user := ix.User()
	pending := w.collector.Await(ix.ChannelID, user.ID, w.emojiTimeout)
	defer pending.Cancel()

	if err := ix.Update(ctx, emojiPromptScreen()); err != nil {
		return err
	}

	msg, err := pending.Wait(ctx)
	switch {
	case errors.Is(err, platform.ErrExpired):
		return w.showScreen(ctx, ix, screenButton, "No emoji was sent in time.")
	case err != nil:
		return fmt.Errorf("error waiting for emoji: %w", err)
	}

	// The emoji message only exists for the prompt.
	if err := w.s.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		w.l.Debug("Error deleting emoji message", logging.ErrAttr(err))
	}

	emoji, ok := parseEmoji(msg.Content)
	if !ok {
		return w.showScreen(ctx, ix, screenButton, "That is not an emoji.")
	}

	if emoji.IsCustom() {
		local, err := w.isGuildEmoji(ctx, ix.GuildID, emoji.ID)
		if err != nil {
			return err
		}
		if !local {
			return ix.Update(ctx, emojiConfirmScreen(emoji))
		}
	}

	return w.setEmoji(ctx, ix, emoji, "")
}

func (w *Wizard) isGuildEmoji(ctx context.Context, guildID, emojiID string) (bool, error) {
	emojis, err := w.s.GuildEmojis(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("error getting guild emojis: %w", err)
	}
	for _, e := range emojis {
		if e.ID == emojiID {
			return true, nil
		}
	}
	return false, nil
}

// confirmEmoji uploads a foreign emoji into the guild and uses the copy.
func (w *Wizard) confirmEmoji(ctx context.Context, ix *platform.Interaction, a router.Action) error {
	foreign := entities.Emoji{ID: a.Arg(0), Name: a.Arg(1), Animated: a.Arg(2) == "a"}
	if foreign.ID == "" || foreign.Name == "" {
		return w.showScreen(ctx, ix, screenButton, "That emoji can no longer be uploaded.")
	}

	image, err := w.s.EmojiImage(ctx, foreign.ID, foreign.Animated)
	if err != nil {
		w.l.Warn("Error downloading emoji", slog.String("emoji_id", foreign.ID), logging.ErrAttr(err))
		return w.showScreen(ctx, ix, screenButton, "The emoji could not be downloaded.")
	}

	created, err := w.s.CreateEmoji(ctx, ix.GuildID, foreign.Name, image)
	if err != nil {
		w.l.Warn("Error uploading emoji", slog.String("emoji_id", foreign.ID), logging.ErrAttr(err))
		return w.showScreen(ctx, ix, screenButton, "The emoji could not be uploaded to this server.")
	}

	return w.setEmoji(ctx, ix, entities.Emoji{ID: created.ID, Name: created.Name, Animated: foreign.Animated}, "Emoji uploaded.")
}

func (w *Wizard) setEmoji(ctx context.Context, ix *platform.Interaction, emoji entities.Emoji, notice string) error {
	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}

	w.logChange(a, "Button emoji", emojiDisplay(a.Draft.ButtonEmoji), emoji.String())
	a.Draft.ButtonEmoji = &emoji

	if err := w.save(ctx, a); err != nil {
		return err
	}
	return ix.Update(ctx, render(screenButton, a, notice))
}
