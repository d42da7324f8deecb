package panel

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rivo/uniseg"
)

const (
	// ButtonsPerRow and RowsPerMessage are Discord's component limits.
	ButtonsPerRow  = 5
	RowsPerMessage = 5

	// LabelLength is how many characters of a message a button previews.
	LabelLength = 4

	customIDPrefix = "send_msg_"
	ellipsis       = "..."
	emptyLabel     = "(empty)"
)

// Label previews content: the first LabelLength user-perceived characters,
// followed by an ellipsis when content is longer.
func Label(content string) string {
	var sb strings.Builder
	g := uniseg.NewGraphemes(content)
	for n := 0; g.Next(); n++ {
		if n == LabelLength {
			return sb.String() + ellipsis
		}
		sb.WriteString(g.Str())
	}
	return sb.String()
}

// CustomID encodes a message index into a button custom ID.
func CustomID(index int) string {
	return customIDPrefix + strconv.Itoa(index)
}

// ParseCustomID extracts the message index from a panel button custom ID.
func ParseCustomID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, customIDPrefix)
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// IsPanelButton reports whether id belongs to a panel button.
func IsPanelButton(id string) bool {
	return strings.HasPrefix(id, customIDPrefix)
}

// Rows renders one button per message, ButtonsPerRow buttons to a row.
func Rows(messages []string) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, (len(messages)+ButtonsPerRow-1)/ButtonsPerRow)
	var current []discordgo.MessageComponent

	for index, msg := range messages {
		if index%ButtonsPerRow == 0 && index > 0 {
			rows = append(rows, discordgo.ActionsRow{Components: current})
			current = nil
		}
		label := Label(msg)
		if strings.TrimSpace(label) == "" {
			label = emptyLabel
		}
		current = append(current, discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: CustomID(index),
		})
	}
	if len(current) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: current})
	}
	return rows
}

// Pages splits rows into groups that each fit in a single Discord message.
func Pages(rows []discordgo.MessageComponent) [][]discordgo.MessageComponent {
	var pages [][]discordgo.MessageComponent
	for start := 0; start < len(rows); start += RowsPerMessage {
		end := min(start+RowsPerMessage, len(rows))
		pages = append(pages, rows[start:end])
	}
	return pages
}

// Resolve returns the message at index, or false when the index no longer
// exists (the store was cleared after the panel was rendered).
func Resolve(messages []string, index int) (string, bool) {
	if index < 0 || index >= len(messages) {
		return "", false
	}
	return messages[index], true
}
