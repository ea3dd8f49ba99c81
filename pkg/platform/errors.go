package platform

import (
	"errors"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

var (
	// ErrNotFound is returned by Session implementations that are not backed by REST calls.
	ErrNotFound = errors.New("platform: not found")

	// ErrAlreadyAcknowledged is returned when an interaction is acknowledged twice in an incompatible way.
	ErrAlreadyAcknowledged = errors.New("interaction already acknowledged")
)

var notFoundCodes = map[int]bool{
	discordgo.ErrCodeUnknownChannel: true,
	discordgo.ErrCodeUnknownMessage: true,
	discordgo.ErrCodeUnknownMember:  true,
	discordgo.ErrCodeUnknownUser:    true,
	discordgo.ErrCodeUnknownEmoji:   true,
	discordgo.ErrCodeUnknownRole:    true,
}

// IsNotFound reports whether err means the referenced platform object no longer exists.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}

	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && notFoundCodes[restErr.Message.Code] {
		return true
	}
	// General is thrown when a 404 is returned.
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
