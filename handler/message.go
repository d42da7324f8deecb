package handler

import (
	"fmt"
	"strings"

	"discord-panel-bot/cooldown"

	"github.com/bwmarrin/discordgo"
)

// MessageCreate answers "<prefix><keyword>" messages with the stored response.
// Administrators are never rate limited; everyone else gets one trigger per
// cooldown window.
func (h *Handler) MessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	keyword, ok := strings.CutPrefix(m.Content, h.prefix)
	if !ok {
		return
	}

	response, found, err := h.store.Trigger(h.ctx, keyword)
	if err != nil {
		h.log.Warn("loading trigger (treating as missing)", "keyword", keyword, "err", err)
		return
	}
	if !found {
		return
	}

	if !h.messageAuthorIsAdmin(m) {
		d := h.limiter.Allow(m.Author.ID, h.now())
		if !d.Allowed {
			h.sendCooldownNotice(m, d)
			return
		}
	}

	if _, err := h.session.ChannelMessageSend(m.ChannelID, response, discordgo.WithContext(h.ctx)); err != nil {
		h.log.Error("sending trigger response", "keyword", keyword, "channel", m.ChannelID, "err", err)
	}
}

// sendCooldownNotice replies with the remaining wait and retracts the reply
// after the notice TTL so the channel stays clean.
func (h *Handler) sendCooldownNotice(m *discordgo.MessageCreate, d cooldown.Decision) {
	content := fmt.Sprintf("⏳ On cooldown. Please wait %s more seconds.", cooldown.FormatWait(d.RetryAfter))
	reply, err := h.session.ChannelMessageSendReply(m.ChannelID, content, m.Reference(), discordgo.WithContext(h.ctx))
	if err != nil {
		h.log.Error("sending cooldown notice", "user", m.Author.ID, "err", err)
		return
	}

	h.timers.after(h.noticeTTL, func() {
		if err := h.session.ChannelMessageDelete(reply.ChannelID, reply.ID); err != nil {
			h.log.Debug("retracting cooldown notice", "message", reply.ID, "err", err)
		}
	})
}
