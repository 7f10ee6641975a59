package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegister() Register {
	return Register{
		Title:       "Case Register",
		GeneratedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Rows: []CaseRow{
			{
				Code:         "CASE-2026-0001",
				Kind:         "COMMON",
				Title:        "Tutoring follow-up",
				Student:      "Ana Gomez",
				Category:     "Academic",
				OccurredAt:   "2026-02-01T10:00:00Z",
				Channel:      "EMAIL",
				Confidential: "false",
				Comment:      "extra sessions requested",
			},
		},
	}
}

func TestCSVRenderKeepsColumnOrder(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleRegister())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Code,Kind,Title,Student,Category,Occurred At,Channel,Confidential,Comment", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "CASE-2026-0001,COMMON,"))
}

func TestCSVRenderEmptyRegisterIsHeaderOnly(t *testing.T) {
	payload, err := NewCSVExporter().Render(Register{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(string(payload)), "\n")+1)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleRegister())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
