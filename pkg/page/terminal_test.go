package page

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Prompt(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(bufio.NewReader(strings.NewReader("12345\r\nlast")), &out)
	ctx := context.Background()

	answer, ok, err := term.Prompt(ctx, "Case? ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "12345", answer)

	answer, ok, err = term.Prompt(ctx, "Again? ")
	require.NoError(t, err)
	assert.True(t, ok, "a final line without newline is still an answer")
	assert.Equal(t, "last", answer)

	_, ok, err = term.Prompt(ctx, "Once more? ")
	require.NoError(t, err)
	assert.False(t, ok, "end of input cancels")

	assert.Equal(t, "Case? Again? Once more? \n", out.String())
}

func TestTerminal_Alert(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(bufio.NewReader(strings.NewReader("")), &out)

	require.NoError(t, term.Alert(context.Background(), "Not on a case page"))
	assert.Equal(t, "! Not on a case page\n", out.String())
}

func TestTerminal_CancelledContext(t *testing.T) {
	term := NewTerminal(bufio.NewReader(strings.NewReader("x\n")), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := term.Prompt(ctx, "?")
	assert.ErrorIs(t, err, context.Canceled)
}
