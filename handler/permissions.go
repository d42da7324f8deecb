package handler

import (
	"github.com/bwmarrin/discordgo"
)

func hasAdmin(perms int64) bool {
	return perms&discordgo.PermissionAdministrator != 0
}

// interactionIsAdmin trusts the permissions Discord resolves onto the
// interaction member. DMs carry no member and are never privileged.
func interactionIsAdmin(i *discordgo.Interaction) bool {
	return i.Member != nil && hasAdmin(i.Member.Permissions)
}

// memberIsAdmin resolves guild-level permissions for a message author from
// the cached guild roles.
func memberIsAdmin(guild *discordgo.Guild, userID string, member *discordgo.Member) bool {
	if guild == nil || member == nil {
		return false
	}
	if guild.OwnerID != "" && guild.OwnerID == userID {
		return true
	}
	if hasAdmin(member.Permissions) {
		return true
	}

	roleMap := make(map[string]*discordgo.Role, len(guild.Roles))
	perms := int64(0)
	for _, role := range guild.Roles {
		roleMap[role.ID] = role
		if role.ID == guild.ID {
			perms |= role.Permissions
		}
	}
	for _, roleID := range member.Roles {
		if role := roleMap[roleID]; role != nil {
			perms |= role.Permissions
		}
	}
	return hasAdmin(perms)
}

func (h *Handler) messageAuthorIsAdmin(m *discordgo.MessageCreate) bool {
	if m.GuildID == "" || m.Member == nil {
		return false
	}
	guild, err := h.guilds.Guild(m.GuildID)
	if err != nil {
		h.log.Debug("guild not cached, treating author as unprivileged", "guild", m.GuildID, "err", err)
		return false
	}
	return memberIsAdmin(guild, m.Author.ID, m.Member)
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
