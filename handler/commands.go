package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	cmdAdd         = "madd"
	cmdTrigger     = "mtrigger"
	cmdTriggerList = "mtriggerlist"
	cmdPanel       = "mpanel"
	cmdClear       = "mclear"
	cmdHelp        = "mhelp"
)

const helpFormat = `### 🛠️ Admin bot help
**1. Panel**
* ` + "`/madd`" + ` save a message for the panel
* ` + "`/mpanel`" + ` show the panel; click a button to post that message here
**2. Auto-reply (%s second cooldown)**
* ` + "`/mtrigger`" + ` reply to ` + "`%s<trigger>`" + ` with a saved response
* ` + "`/mtriggerlist`" + ` list registered triggers
**3. Other**
* ` + "`/mclear`" + ` delete all messages and triggers`

func helpMessage(prefix string, window time.Duration) string {
	return fmt.Sprintf(helpFormat, strconv.FormatFloat(window.Seconds(), 'f', -1, 64), prefix)
}

// Commands returns the slash command definitions. They are hidden from members
// without the Administrator permission; the handlers check again regardless.
func Commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	noDM := false

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        cmdAdd,
			Description: "[Admin] Save a message for the panel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "content",
					Description: "Message content",
					Required:    true,
				},
			},
		},
		{
			Name:        cmdTrigger,
			Description: "[Admin] Register an auto-reply trigger",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "trigger",
					Description: "Word to react to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "response",
					Description: "Reply content",
					Required:    true,
				},
			},
		},
		{
			Name:        cmdTriggerList,
			Description: "[Admin] List registered triggers",
		},
		{
			Name:        cmdPanel,
			Description: "[Admin] Show the message panel",
		},
		{
			Name:        cmdClear,
			Description: "[Admin] Delete all data",
		},
		{
			Name:        cmdHelp,
			Description: "[Admin] Show usage",
		},
	}
	for _, c := range commands {
		c.DefaultMemberPermissions = &adminOnly
		c.DMPermission = &noDM
	}
	return commands
}
