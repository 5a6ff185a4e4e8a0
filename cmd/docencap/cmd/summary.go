package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/docencap/internal/dicom"
	"github.com/mrsinham/docencap/internal/dicom/metadata"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

func renderSummary(res dicom.Result) string {
	var sb strings.Builder
	sb.WriteString(summaryTitleStyle.Render(strings.ToUpper(string(res.Class)) + " document encapsulated"))
	sb.WriteString("\n")

	pairs := []struct{ label, value string }{
		{"Output", res.Output},
		{"Reference", res.Reference.String()},
		{"Patient", res.Fields.Value(metadata.PatientName)},
		{"Patient ID", res.Fields.Value(metadata.PatientID)},
		{"Title", res.Fields.Value(metadata.DocumentTitle)},
		{"Study UID", res.Identifiers.StudyInstanceUID},
		{"Series UID", res.Identifiers.SeriesInstanceUID},
		{"SOP Instance UID", res.Identifiers.SOPInstanceUID},
		{"Instance", fmt.Sprint(res.Identifiers.InstanceNumber)},
		{"Document", fmt.Sprintf("%d bytes", res.DocumentBytes)},
		{"Override keys", fmt.Sprint(res.OverrideKeys)},
	}
	if len(res.Conflicts) > 0 {
		pairs = append(pairs, struct{ label, value string }{"Conflicts", fmt.Sprintf("%d resolved from the document", len(res.Conflicts))})
	}
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(summaryLabelStyle.Render(p.label + ": "))
		sb.WriteString(summaryValueStyle.Render(p.value))
	}
	return summaryPanelStyle.Render(sb.String())
}
