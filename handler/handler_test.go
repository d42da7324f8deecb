package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"discord-panel-bot/cooldown"
	"discord-panel-bot/db"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	ChannelID string
	Content   string
	Reference *discordgo.MessageReference
}

// fakeSession records every call the handlers make.
type fakeSession struct {
	mu        sync.Mutex
	nextID    int
	sent      []sentMessage
	deleted   []string
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
	sendErr   error
}

func (f *fakeSession) newMessage(channelID, content string) *discordgo.Message {
	f.nextID++
	return &discordgo.Message{ID: fmt.Sprintf("msg-%d", f.nextID), ChannelID: channelID, Content: content}
}

func (f *fakeSession) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Content: content})
	return f.newMessage(channelID, content), nil
}

func (f *fakeSession) ChannelMessageSendReply(channelID string, content string, ref *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Content: content, Reference: ref})
	return f.newMessage(channelID, content), nil
}

func (f *fakeSession) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return f.newMessage("", data.Content), nil
}

func (f *fakeSession) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func (f *fakeSession) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeSession) Responses() []*discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.InteractionResponse(nil), f.responses...)
}

func (f *fakeSession) LastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	rs := f.Responses()
	require.NotEmpty(t, rs)
	return rs[len(rs)-1]
}

type fakeGuilds map[string]*discordgo.Guild

func (g fakeGuilds) Guild(id string) (*discordgo.Guild, error) {
	if guild, ok := g[id]; ok {
		return guild, nil
	}
	return nil, errors.New("state cache not found")
}

const (
	guildID     = "100000000000000001"
	channelID   = "200000000000000002"
	adminRoleID = "300000000000000003"
	ownerID     = "400000000000000004"
)

type fixture struct {
	h       *Handler
	session *fakeSession
	store   db.Store
	limiter *cooldown.Limiter
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := db.NewJSONStore(filepath.Join(dir, "data.json"), filepath.Join(dir, "triggers.json"), quiet)
	require.NoError(t, err)

	guilds := fakeGuilds{guildID: {
		ID:      guildID,
		OwnerID: ownerID,
		Roles: []*discordgo.Role{
			{ID: guildID, Permissions: discordgo.PermissionSendMessages},
			{ID: adminRoleID, Permissions: discordgo.PermissionAdministrator},
		},
	}}

	f := &fixture{
		session: &fakeSession{},
		store:   store,
		limiter: cooldown.New(10 * time.Second),
		clock:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.h = New(f.session, guilds, store, f.limiter, Options{
		TriggerPrefix:     "m!",
		CooldownNoticeTTL: 20 * time.Millisecond,
		Logger:            quiet,
	})
	f.h.now = func() time.Time { return f.clock }
	t.Cleanup(f.h.Close)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func textMessage(userID, content string, roles ...string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m-" + userID,
		ChannelID: channelID,
		GuildID:   guildID,
		Content:   content,
		Author:    &discordgo.User{ID: userID},
		Member:    &discordgo.Member{Roles: roles},
	}}
}

func member(userID string, admin bool) *discordgo.Member {
	m := &discordgo.Member{User: &discordgo.User{ID: userID}}
	if admin {
		m.Permissions = discordgo.PermissionAdministrator
	}
	return m
}

func command(name string, admin bool, opts map[string]string) *discordgo.InteractionCreate {
	data := discordgo.ApplicationCommandInteractionData{Name: name}
	for k, v := range opts {
		data.Options = append(data.Options, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  k,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: v,
		})
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: channelID,
		Member:    member("500", admin),
		Data:      data,
	}}
}

func button(customID string, admin bool) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   guildID,
		ChannelID: channelID,
		Member:    member("500", admin),
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	}}
}
