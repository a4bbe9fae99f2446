package tui

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"

	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/session"
)

// renderMarkdown renders markdown with glamour, falling back to the raw
// text if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// reviewSummary builds the markdown shown on the review step.
func reviewSummary(s *session.Session) string {
	r := s.Record()
	var b strings.Builder

	title := strings.TrimSpace(r.Get(catalog.FieldMake) + " " + r.Get(catalog.FieldModel))
	if title == "" {
		title = "Vehicle Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	fmt.Fprintf(&b, "## Vehicle\n\n")
	for _, line := range []struct {
		label string
		field catalog.Field
	}{
		{"Variant", catalog.FieldVariant},
		{"Price", catalog.FieldPrice},
		{"Mfg. Year", catalog.FieldMfgYear},
		{"Odometer", catalog.FieldOdometer},
		{"Fuel", catalog.FieldFuelType},
		{"Transmission", catalog.FieldTransmission},
		{"Registration", catalog.FieldRegNumber},
		{"Ownership", catalog.FieldOwnership},
		{"Hypothecation", catalog.FieldHypothecation},
	} {
		if v := r.Get(line.field); v != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", line.label, v)
		}
	}

	issues := 0
	var issueLines []string
	for _, cp := range catalog.Checkpoints {
		if r.Status(cp) == catalog.StatusIssue {
			issues++
			line := fmt.Sprintf("- **%s:** %s", cp.Label, r.Remark(cp))
			issueLines = append(issueLines, line)
		}
	}
	fmt.Fprintf(&b, "\n## Inspection\n\n")
	if issues == 0 {
		b.WriteString("No issues recorded.\n")
	} else {
		fmt.Fprintf(&b, "%d issue(s) recorded:\n\n", issues)
		b.WriteString(strings.Join(issueLines, "\n"))
		b.WriteString("\n")
	}

	filled, total := s.Staging().GalleryProgress()
	fmt.Fprintf(&b, "\n## Media\n\n- **Gallery:** %d of %d photos\n", filled, total)
	if len(s.Staging().StagedSlots()) > 0 {
		fmt.Fprintf(&b, "- **Staged for upload:** %d file(s)\n", len(s.Staging().StagedSlots()))
	}
	return b.String()
}
