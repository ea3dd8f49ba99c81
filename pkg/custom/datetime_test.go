package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatetime_JSON(t *testing.T) {
	d := Datetime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))

	got, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-03-01T12:30:00Z"`, string(got))

	var back Datetime
	require.NoError(t, json.Unmarshal(got, &back))
	require.True(t, d.Time().Equal(back.Time()))
}

func TestDatetime_ZeroIsNull(t *testing.T) {
	type wrapper struct {
		At Datetime `json:"at"`
	}

	got, err := json.Marshal(wrapper{})
	require.NoError(t, err)
	require.Equal(t, `{"at":null}`, string(got))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &w))
	require.True(t, w.At.IsZero())
}

func TestDatetime_Scan(t *testing.T) {
	var d Datetime
	require.NoError(t, d.Scan("2024-03-01T12:30:00Z"))
	require.Equal(t, 2024, d.Time().Year())

	require.Error(t, d.Scan(42))
}
