package templates

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	snap := Defaults()
	snap["team-1"] = Template{ID: "team-1", Name: "Team", Template: "<p>{caseNumber}</p>"}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snap))
	assert.Contains(t, buf.String(), "is_default: true")

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestImport_Validation(t *testing.T) {
	_, err := Import(strings.NewReader("templates:\n  - name: nameless id\n"))
	assert.Error(t, err)

	got, err := Import(strings.NewReader("templates:\n  - id: x\n    template: hi\n"))
	require.NoError(t, err)
	assert.Equal(t, "x", got["x"].Name, "name defaults to id")

	_, err = Import(strings.NewReader("templates: [unterminated"))
	assert.Error(t, err)
}
