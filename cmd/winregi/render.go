package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/winregi/apply"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorAccent  = lipgloss.Color("#3B82F6")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	idStyle      = lipgloss.NewStyle().Foreground(colorAccent)
	detailStyle  = lipgloss.NewStyle().PaddingLeft(4)
)

func riskStyle(r core.RiskLevel) lipgloss.Style {
	switch r {
	case core.RiskCaution:
		return errorStyle
	case core.RiskReversible:
		return warningStyle
	}
	return successStyle
}

func renderResults(w io.Writer, results []*core.RankedResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No matching settings."))
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %s %s %s\n",
			i+1,
			titleStyle.Render(r.Entry.Name),
			idStyle.Render("("+r.Entry.Id+")"),
			mutedStyle.Render(fmt.Sprintf("%.2f", r.Score)))
		if r.Entry.Description != "" {
			fmt.Fprintln(w, detailStyle.Render(r.Entry.Description))
		}

		var details []string
		if r.SuggestedActionId != "" {
			details = append(details, "suggested: "+idStyle.Render(r.SuggestedActionId))
		}
		details = append(details, "risk: "+riskStyle(r.Entry.Risk).Render(r.Entry.Risk.String()))
		if len(r.Matched) > 0 {
			details = append(details, "matched: "+strings.Join(r.Matched, ", "))
		}
		fmt.Fprintln(w, detailStyle.Render(mutedStyle.Render(strings.Join(details, "  "))))
	}
}

func renderActions(w io.Writer, entry *core.SettingEntry) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(entry.Name), idStyle.Render("("+entry.Id+")"))
	for _, a := range entry.Actions {
		line := fmt.Sprintf("%s  %s", idStyle.Render(a.Id), a.Kind)
		if a.Name != "" {
			line += "  " + a.Name
		}
		if a.Default {
			line += mutedStyle.Render("  (default)")
		}
		fmt.Fprintln(w, detailStyle.Render(line))
	}
}

func stateStyle(s core.ApplyState) lipgloss.Style {
	switch s {
	case core.ApplyStateApplied:
		return successStyle
	case core.ApplyStateFailed:
		return errorStyle
	case core.ApplyStateDeclined, core.ApplyStateConfirmationPending:
		return warningStyle
	}
	return mutedStyle
}

func renderOutcome(w io.Writer, out *apply.Outcome) {
	fmt.Fprintf(w, "%s/%s: %s\n", out.EntryId, out.ActionId, stateStyle(out.State).Render(out.State.String()))
	if out.Diagnostic != "" {
		fmt.Fprintln(w, detailStyle.Render(mutedStyle.Render(out.Diagnostic)))
	}
}

func renderStatus(w io.Writer, entryID string, statuses []*executor.ActionStatus) {
	for _, st := range statuses {
		state := mutedStyle.Render("not applied")
		if st.Applied() {
			state = successStyle.Render("applied")
		}
		fmt.Fprintf(w, "%s/%s: %s\n", entryID, st.Action.Id, state)
		for _, v := range st.Values {
			current := mutedStyle.Render("(missing)")
			if v.Exists {
				current = fmt.Sprintf("%s %q", v.Type, v.Current)
			}
			line := fmt.Sprintf("%s\\%s  %s, wants %s %q", v.Want.Path, v.Want.Name, current, v.Want.Type, v.Want.Data)
			if !v.Matches {
				line = warningStyle.Render(line)
			}
			fmt.Fprintln(w, detailStyle.Render(line))
		}
	}
}

func renderHistory(w io.Writer, entries []*core.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No searches yet."))
		return
	}
	for _, h := range entries {
		fmt.Fprintf(w, "%s  %s %s\n",
			mutedStyle.Render(h.Timestamp.Local().Format("2006-01-02 15:04")),
			h.Query,
			mutedStyle.Render(fmt.Sprintf("(%d results)", h.ResultCount)))
	}
}

func renderApplied(w io.Writer, records []*core.AppliedAction) {
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nothing applied yet."))
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s  %s/%s %s\n",
			mutedStyle.Render(r.Timestamp.Local().Format("2006-01-02 15:04")),
			r.EntryId, r.ActionId,
			stateStyle(r.State).Render(r.State.String()))
		if r.Diagnostic != "" {
			fmt.Fprintln(w, detailStyle.Render(mutedStyle.Render(r.Diagnostic)))
		}
	}
}
