package panel

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttons(t *testing.T, row discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	ar, ok := row.(discordgo.ActionsRow)
	require.True(t, ok, "row is %T", row)
	out := make([]discordgo.Button, 0, len(ar.Components))
	for _, c := range ar.Components {
		b, ok := c.(discordgo.Button)
		require.True(t, ok, "component is %T", c)
		out = append(out, b)
	}
	return out
}

func TestLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"hi", "hi"},
		{"hell", "hell"},
		{"hello", "hell..."},
		{"a longer message", "a lo..."},
		{"こんにちは", "こんにち..."},
		{"おはよう", "おはよう"},
		{"👍🏽👍🏽👍🏽👍🏽👍🏽", "👍🏽👍🏽👍🏽👍🏽..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.in))
		})
	}
}

func TestCustomIDRoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 4, 5, 123} {
		got, ok := ParseCustomID(CustomID(i))
		require.True(t, ok)
		assert.Equal(t, i, got)
	}
	assert.Equal(t, "send_msg_7", CustomID(7))
}

func TestParseCustomIDRejectsForeignIDs(t *testing.T) {
	for _, id := range []string{"", "send_msg_", "send_msg_x", "send_msg_-1", "config_modal", "msg_1"} {
		_, ok := ParseCustomID(id)
		assert.False(t, ok, id)
	}
	assert.True(t, IsPanelButton("send_msg_3"))
	assert.False(t, IsPanelButton("other_3"))
}

func TestRowsCountAndWidth(t *testing.T) {
	for n := 1; n <= 27; n++ {
		msgs := make([]string, n)
		for i := range msgs {
			msgs[i] = fmt.Sprintf("message %d", i)
		}

		rows := Rows(msgs)

		assert.Len(t, rows, (n+4)/5, "n=%d", n)
		total := 0
		for _, r := range rows {
			bs := buttons(t, r)
			assert.LessOrEqual(t, len(bs), ButtonsPerRow)
			assert.NotEmpty(t, bs)
			total += len(bs)
		}
		assert.Equal(t, n, total)
	}
}

func TestRowsButtonsCarryIndex(t *testing.T) {
	msgs := []string{"a", "b", "c", "d", "e", "f", "g"}

	rows := Rows(msgs)

	require.Len(t, rows, 2)
	second := buttons(t, rows[1])
	require.Len(t, second, 2)
	assert.Equal(t, "send_msg_5", second[0].CustomID)
	assert.Equal(t, "f", second[0].Label)
	assert.Equal(t, discordgo.PrimaryButton, second[0].Style)
}

func TestRowsConcreteScenario(t *testing.T) {
	msgs := []string{"hello", "a longer message"}

	rows := Rows(msgs)

	require.Len(t, rows, 1)
	bs := buttons(t, rows[0])
	require.Len(t, bs, 2)
	assert.Equal(t, "hell...", bs[0].Label)
	assert.Equal(t, "a lo...", bs[1].Label)

	index, ok := ParseCustomID(bs[1].CustomID)
	require.True(t, ok)
	got, ok := Resolve(msgs, index)
	require.True(t, ok)
	assert.Equal(t, "a longer message", got)
}

func TestRowsEmptyLabelPlaceholder(t *testing.T) {
	bs := buttons(t, Rows([]string{"   "})[0])
	assert.Equal(t, "(empty)", bs[0].Label)
}

func TestRowsEmptyStore(t *testing.T) {
	assert.Empty(t, Rows(nil))
	assert.Empty(t, Pages(nil))
}

func TestPages(t *testing.T) {
	msgs := make([]string, 60)
	for i := range msgs {
		msgs[i] = "x"
	}

	pages := Pages(Rows(msgs))

	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 5)
	assert.Len(t, pages[1], 5)
	assert.Len(t, pages[2], 2)
}

func TestResolve(t *testing.T) {
	msgs := []string{"one", "two"}

	got, ok := Resolve(msgs, 1)
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	_, ok = Resolve(msgs, 2)
	assert.False(t, ok)
	_, ok = Resolve(nil, 0)
	assert.False(t, ok)
	_, ok = Resolve(msgs, -1)
	assert.False(t, ok)
}
