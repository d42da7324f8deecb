package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHandlerFormatsRecord(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	log := New(&buf, false).With("component", "db")

	log.Info("store opened", "backend", "json", slog.Group("file", "path", "data.json"))

	out := buf.String()
	assert.Contains(t, out, "INFO  store opened")
	assert.Contains(t, out, "component=db")
	assert.Contains(t, out, "backend=json")
	assert.Contains(t, out, "file.path=data.json")
}

func TestHandlerLevels(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "DEBUG shown")

	buf.Reset()
	New(&buf, false).Error("boom", "err", "disk full")
	assert.Contains(t, buf.String(), "ERROR boom err=disk full")
}

func TestWithGroupPrefixesKeys(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	New(&buf, false).WithGroup("cooldown").Info("swept", "removed", 3)

	assert.Contains(t, buf.String(), "cooldown.removed=3")
}

func TestAttrsBeforeGroupStayUnprefixed(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	New(&buf, false).With("component", "panel").WithGroup("req").Info("rendered", "rows", 2)

	assert.Contains(t, buf.String(), " component=panel")
	assert.Contains(t, buf.String(), "req.rows=2")
}
