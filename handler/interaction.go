package handler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"discord-panel-bot/panel"

	"github.com/bwmarrin/discordgo"
)

// Discord rejects message content longer than this.
const maxContentLength = 2000

const (
	msgNotAdmin   = "❌ Administrator permission required."
	msgNoData     = "❌ No data"
	msgStoreError = "❌ Could not update the saved data. Check the logs."
	msgPanelTitle = "🛠️ **Admin panel**"
)

// InteractionCreate handles slash commands and panel button clicks. Both
// require the Administrator permission.
func (h *Handler) InteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionMessageComponent:
	default:
		return
	}

	if !interactionIsAdmin(i.Interaction) {
		h.log.Info("rejected non-admin interaction", "user", interactionUserID(i.Interaction))
		h.respondEphemeral(i.Interaction, msgNotAdmin)
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(i)
	case discordgo.InteractionMessageComponent:
		h.handleButton(i)
	}
}

func (h *Handler) handleCommand(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	h.log.Debug("command", "name", data.Name, "user", interactionUserID(i.Interaction))

	switch data.Name {
	case cmdHelp:
		h.respondEphemeral(i.Interaction, helpMessage(h.prefix, h.limiter.Window()))

	case cmdAdd:
		content := stringOption(data, "content")
		count, err := h.store.AppendMessage(h.ctx, content)
		if err != nil {
			h.log.Error("saving panel message", "err", err)
			h.respondEphemeral(i.Interaction, msgStoreError)
			return
		}
		h.respondEphemeral(i.Interaction, fmt.Sprintf("✅ Saved (%d messages)", count))

	case cmdTrigger:
		keyword := stringOption(data, "trigger")
		response := stringOption(data, "response")
		if err := h.store.SetTrigger(h.ctx, keyword, response); err != nil {
			h.log.Error("saving trigger", "keyword", keyword, "err", err)
			h.respondEphemeral(i.Interaction, msgStoreError)
			return
		}
		h.respondEphemeral(i.Interaction, fmt.Sprintf("✅ Registered trigger `%s%s`", h.prefix, keyword))

	case cmdTriggerList:
		h.listTriggers(i)

	case cmdClear:
		if err := h.store.Clear(h.ctx); err != nil {
			h.log.Error("clearing store", "err", err)
			h.respondEphemeral(i.Interaction, msgStoreError)
			return
		}
		h.respondEphemeral(i.Interaction, "🗑️ All data cleared")

	case cmdPanel:
		h.showPanel(i)

	default:
		h.log.Warn("unknown command", "name", data.Name)
	}
}

func (h *Handler) listTriggers(i *discordgo.InteractionCreate) {
	triggers, err := h.store.Triggers(h.ctx)
	if err != nil {
		h.log.Warn("loading triggers (treating as empty)", "err", err)
	}
	if len(triggers) == 0 {
		h.respondEphemeral(i.Interaction, msgNoData)
		return
	}

	lines := make([]string, 0, len(triggers)+1)
	lines = append(lines, "### 📋 Registered triggers")
	for _, t := range triggers {
		lines = append(lines, fmt.Sprintf("• **%s%s** → %s", h.prefix, t.Keyword, t.Response))
	}

	chunks := chunkLines(lines, maxContentLength)
	h.respondEphemeral(i.Interaction, chunks[0])
	for _, c := range chunks[1:] {
		h.followupEphemeral(i.Interaction, &discordgo.WebhookParams{Content: c})
	}
}

func (h *Handler) showPanel(i *discordgo.InteractionCreate) {
	messages, err := h.store.Messages(h.ctx)
	if err != nil {
		h.log.Warn("loading messages (treating as empty)", "err", err)
	}
	if len(messages) == 0 {
		h.respondEphemeral(i.Interaction, msgNoData)
		return
	}

	pages := panel.Pages(panel.Rows(messages))
	err = h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    msgPanelTitle,
			Components: pages[0],
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.log.Error("sending panel", "err", err)
		return
	}
	for n, page := range pages[1:] {
		h.followupEphemeral(i.Interaction, &discordgo.WebhookParams{
			Content:    fmt.Sprintf("%s (%d/%d)", msgPanelTitle, n+2, len(pages)),
			Components: page,
		})
	}
}

// handleButton re-reads the store on every click, so a panel rendered before
// /mclear resolves nothing and the click is acknowledged without output.
func (h *Handler) handleButton(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if !panel.IsPanelButton(customID) {
		return
	}

	if index, ok := panel.ParseCustomID(customID); ok {
		content, found, err := h.store.Message(h.ctx, index)
		switch {
		case err != nil:
			h.log.Warn("loading panel message (ignoring click)", "index", index, "err", err)
		case !found:
			h.log.Debug("stale panel button", "index", index)
		default:
			if _, err := h.session.ChannelMessageSend(i.ChannelID, content, discordgo.WithContext(h.ctx)); err != nil {
				h.log.Error("sending panel message", "index", index, "channel", i.ChannelID, "err", err)
			}
		}
	}

	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		h.log.Error("acknowledging button", "err", err)
	}
}

func (h *Handler) respondEphemeral(i *discordgo.Interaction, content string) {
	err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.log.Error("responding to interaction", "err", err)
	}
}

func (h *Handler) followupEphemeral(i *discordgo.Interaction, params *discordgo.WebhookParams) {
	params.Flags = discordgo.MessageFlagsEphemeral
	if _, err := h.session.FollowupMessageCreate(i, true, params); err != nil {
		h.log.Error("sending follow-up", "err", err)
	}
}

func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// chunkLines joins lines with newlines into pieces no longer than limit
// bytes. A single over-long line is hard-split.
func chunkLines(lines []string, limit int) []string {
	var (
		chunks []string
		sb     strings.Builder
	)
	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}
	for _, line := range lines {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if sb.Len() > 0 && sb.Len()+1+len(line) > limit {
			flush()
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	flush()
	if len(chunks) == 0 {
		chunks = append(chunks, "")
	}
	return chunks
}
