package platform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

var (
	// ErrExpired is returned when no matching message arrives in time.
	ErrExpired = errors.New("message capture expired")

	// ErrCancelled is returned when a capture is cancelled before a message arrives.
	ErrCancelled = errors.New("message capture cancelled")
)

// DefaultCaptureTimeout is how long a capture waits for a message.
const DefaultCaptureTimeout = 60 * time.Second

// Collector hands incoming messages to pending captures. Each capture resolves at most once.
type Collector struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]*Pending
}

// NewCollector creates a new Collector.
func NewCollector() *Collector {
	return &Collector{
		pending: make(map[uint64]*Pending),
	}
}

// Pending is a single-shot capture of one message.
type Pending struct {
	id        uint64
	c         *Collector
	channelID string
	userID    string
	timer     *time.Timer

	once sync.Once
	done chan struct{}
	msg  *discordgo.Message
	err  error
}

// Await starts capturing the next message userID sends in channelID.
func (c *Collector) Await(channelID, userID string, timeout time.Duration) *Pending {
	if timeout <= 0 {
		timeout = DefaultCaptureTimeout
	}

	c.mu.Lock()
	c.next++
	p := &Pending{
		id:        c.next,
		c:         c,
		channelID: channelID,
		userID:    userID,
		done:      make(chan struct{}),
	}
	c.pending[p.id] = p
	p.timer = time.AfterFunc(timeout, func() {
		p.resolve(nil, ErrExpired)
	})
	c.mu.Unlock()

	return p
}

// Handle is the discordgo MessageCreate handler feeding the collector.
func (c *Collector) Handle(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}
	c.Dispatch(m.Message)
}

// Dispatch resolves every pending capture the message matches.
func (c *Collector) Dispatch(m *discordgo.Message) {
	if m.Author == nil {
		return
	}

	c.mu.Lock()
	matched := make([]*Pending, 0)
	for _, p := range c.pending {
		if p.channelID == m.ChannelID && p.userID == m.Author.ID {
			matched = append(matched, p)
		}
	}
	c.mu.Unlock()

	for _, p := range matched {
		p.resolve(m, nil)
	}
}

// Len returns the number of captures still waiting.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Collector) remove(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (p *Pending) resolve(m *discordgo.Message, err error) {
	p.once.Do(func() {
		// remove first: it waits for Await to finish setting the timer.
		p.c.remove(p.id)
		p.timer.Stop()
		p.msg = m
		p.err = err
		close(p.done)
	})
}

// Wait blocks until the capture resolves or ctx is done. Cancelling ctx cancels the capture.
func (p *Pending) Wait(ctx context.Context) (*discordgo.Message, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.resolve(nil, ErrCancelled)
		<-p.done
	}
	return p.msg, p.err
}

// Cancel stops the capture. Waiters receive ErrCancelled.
func (p *Pending) Cancel() {
	p.resolve(nil, ErrCancelled)
}
