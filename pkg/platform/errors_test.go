package platform

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "sentinel",
			err:  fmt.Errorf("error editing message: %w", ErrNotFound),
			want: true,
		},
		{
			name: "unknown message code",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage},
			},
			want: true,
		},
		{
			name: "unknown channel code wrapped",
			err: fmt.Errorf("error: %w", &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusBadRequest},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel},
			}),
			want: true,
		},
		{
			name: "plain 404",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
			},
			want: true,
		},
		{
			name: "missing permissions",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusForbidden},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
			},
			want: false,
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
