package tickets

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "alice"},
		{in: "Bob Smith", want: "bob-smith"},
		{in: "j.doe", want: "j-doe"},
		{in: "--edge--", want: "edge"},
		{in: "under_score", want: "under_score"},
		{in: "a  .  b", want: "a-b"},
		{in: "名前", want: fallbackName},
		{in: "", want: fallbackName},
		{in: strings.Repeat("x", 120), want: strings.Repeat("x", 80)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}

func TestClosedName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		closed string
	}{
		{name: "ticket", in: "ticket-alice", closed: "closed-ticket-alice"},
		{name: "claimed", in: "claimed-bob", closed: "closed-claimed-bob"},
		{name: "custom", in: "printer-issue", closed: "closed-printer-issue"},
		{name: "already closed", in: "closed-ticket-alice", closed: "closed-ticket-alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := closedName(tt.in)
			require.Equal(t, tt.closed, got)
			if tt.name != "already closed" {
				require.Equal(t, tt.in, reopenedName(got))
			}
		})
	}

	require.Len(t, closedName(strings.Repeat("x", maxChannelName)), maxChannelName)
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("ticket/1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
	require.Zero(t, k.len())

	// Different keys do not block each other.
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	require.Equal(t, 2, k.len())
	unlockA()
	unlockB()
	require.Zero(t, k.len())
}
