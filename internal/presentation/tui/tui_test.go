package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/chazz/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(40)
	require.NoError(t, err)

	out, err := render("**Melee Weapon Attack** _4_ to hit")
	require.NoError(t, err)
	assert.Contains(t, out, "Attack")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "version 1.2.3")
}

func TestPrintSystemMessage(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintSystemMessage(&buf, "Watching '%s'.", "data")
	assert.Equal(t, ">>> Watching 'data'.\n", buf.String())
}
