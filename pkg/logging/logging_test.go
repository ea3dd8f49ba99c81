package logging

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want slog.Level
	}{
		{name: "default", env: "", want: slog.LevelInfo},
		{name: "debug", env: "debug", want: slog.LevelDebug},
		{name: "warn upper", env: "WARN", want: slog.LevelWarn},
		{name: "garbage", env: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.env)
			cfg := NewConfig("tests")
			require.Equal(t, tt.want, cfg.level)
			require.Equal(t, Name("tests"), cfg.appName)
		})
	}
}

func TestCommonLogger(t *testing.T) {
	l, err := CommonLogger(NewConfig("tests"))
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = CommonLogger(nil)
	require.Error(t, err)
}

func TestErrAttr(t *testing.T) {
	require.Equal(t, "boom", ErrAttr(errors.New("boom")).Value.String())
	require.Equal(t, "", ErrAttr(nil).Value.String())
}
