package handler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"discord-panel-bot/cooldown"
	"discord-panel-bot/db"

	"github.com/bwmarrin/discordgo"
)

// Session is the subset of *discordgo.Session the handlers talk to.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// GuildLookup resolves cached guild metadata; *discordgo.State implements it.
type GuildLookup interface {
	Guild(guildID string) (*discordgo.Guild, error)
}

type Options struct {
	TriggerPrefix     string
	CooldownNoticeTTL time.Duration
	Logger            *slog.Logger
}

// Handler routes gateway events to the trigger auto-reply, the slash commands
// and the panel buttons.
type Handler struct {
	session Session
	guilds  GuildLookup
	store   db.Store
	limiter *cooldown.Limiter

	prefix    string
	noticeTTL time.Duration
	log       *slog.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	timers timerSet
}

func New(session Session, guilds GuildLookup, store db.Store, limiter *cooldown.Limiter, opts Options) *Handler {
	if opts.TriggerPrefix == "" {
		opts.TriggerPrefix = "m!"
	}
	if opts.CooldownNoticeTTL <= 0 {
		opts.CooldownNoticeTTL = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		session:   session,
		guilds:    guilds,
		store:     store,
		limiter:   limiter,
		prefix:    opts.TriggerPrefix,
		noticeTTL: opts.CooldownNoticeTTL,
		log:       opts.Logger.With("component", "handler"),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		timers:    timerSet{pending: make(map[*time.Timer]struct{})},
	}
}

// Close cancels in-flight work and stops pending notice deletions.
func (h *Handler) Close() {
	h.cancel()
	h.timers.stopAll()
}

// timerSet owns the delayed cleanups so they can be stopped on shutdown
// instead of firing against a closed session.
type timerSet struct {
	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	closed  bool
}

func (ts *timerSet) after(d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		ts.mu.Lock()
		_, live := ts.pending[t]
		delete(ts.pending, t)
		ts.mu.Unlock()
		if live {
			fn()
		}
	})
	ts.pending[t] = struct{}{}
}

func (ts *timerSet) stopAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.closed = true
	for t := range ts.pending {
		t.Stop()
		delete(ts.pending, t)
	}
}

func (ts *timerSet) len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.pending)
}
