package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    Action
		wantErr bool
	}{
		{
			name: "system and action",
			id:   "setup:finish",
			want: Action{System: "setup", Name: "finish", Args: []string{}},
		},
		{
			name: "with args",
			id:   "setup:emojiconfirm:123:wolf:a",
			want: Action{System: "setup", Name: "emojiconfirm", Args: []string{"123", "wolf", "a"}},
		},
		{
			name: "empty trailing arg kept",
			id:   "ticket:open:",
			want: Action{System: "ticket", Name: "open", Args: []string{""}},
		},
		{
			name:    "empty",
			id:      "",
			wantErr: true,
		},
		{
			name:    "system only",
			id:      "ticket",
			wantErr: true,
		},
		{
			name:    "empty system",
			id:      ":close",
			wantErr: true,
		},
		{
			name:    "empty action",
			id:      "ticket::1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.id)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAction_Arg(t *testing.T) {
	a := Action{System: "ticket", Name: "open", Args: []string{"1001"}}
	require.Equal(t, "1001", a.Arg(0))
	require.Equal(t, "", a.Arg(1))
	require.Equal(t, "", a.Arg(-1))
}

func TestID(t *testing.T) {
	require.Equal(t, "ticket:open:1001", ID("ticket", "open", "1001"))
	require.Equal(t, "setup:finish", ID("setup", "finish"))

	a, err := ParseAction(ID("setup", "select", "channel"))
	require.NoError(t, err)
	require.Equal(t, "setup:select:channel", a.String())
}
