package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// Markdown renders one wizard screen as markdown.
func Markdown(snap wizard.Snapshot, opts render.RenderOptions) (string, error) {
	catalog := opts.ResolveCatalog()
	var b strings.Builder

	switch snap.Phase {
	case wizard.PhaseWelcome.String():
		writeWelcome(&b, catalog.Facility)
	case wizard.PhaseQuestioning.String():
		writeQuestion(&b, snap)
	case wizard.PhaseContact.String():
		writeContact(&b, snap)
	case wizard.PhaseResults.String():
		writeResults(&b, snap, catalog.Facility, opts.LeadID)
	default:
		return "", fmt.Errorf("tui: unknown phase %q", snap.Phase)
	}
	writeErrors(&b, opts)
	return b.String(), nil
}

func writeWelcome(b *strings.Builder, f assessment.Facility) {
	fmt.Fprintf(b, "# %s\n\n", f.Heading)
	fmt.Fprintf(b, "%s • %s\n\n", f.Address, f.Phone)
	if f.Quote.Text != "" {
		fmt.Fprintf(b, "> %s\n>\n> – %s\n\n", f.Quote.Text, f.Quote.Author)
	}
	if f.Intro != "" {
		fmt.Fprintf(b, "%s\n\n", f.Intro)
	}
	fmt.Fprintf(b, "Prefer to talk? Call us at **%s**\n", f.Phone)
}

func writeProgress(b *strings.Builder, p *wizard.Progress) {
	if p == nil {
		return
	}
	fmt.Fprintf(b, "*%s (%d%%)*\n\n", p.Label, p.Percent)
}

func writeQuestion(b *strings.Builder, snap wizard.Snapshot) {
	writeProgress(b, snap.Progress)
	if snap.Question == nil {
		return
	}
	q := snap.Question
	fmt.Fprintf(b, "## %s\n\n", q.Text)
	if q.Subtitle != "" {
		fmt.Fprintf(b, "%s\n\n", q.Subtitle)
	}
	selected := make(map[string]struct{}, len(snap.Selected))
	for _, value := range snap.Selected {
		selected[value] = struct{}{}
	}
	for _, option := range q.Options {
		mark := " "
		if _, ok := selected[option]; ok {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s\n", mark, option)
	}
}

func writeContact(b *strings.Builder, snap wizard.Snapshot) {
	writeProgress(b, snap.Progress)
	b.WriteString("## Almost done! Let's get your contact information\n\n")
	fmt.Fprintf(b, "- **Full Name:** %s\n", orDash(snap.Contact.Name))
	fmt.Fprintf(b, "- **Phone Number:** %s\n", orDash(snap.Contact.Phone))
	fmt.Fprintf(b, "- **Email Address:** %s\n", orDash(snap.Contact.Email))
	fmt.Fprintf(b, "- **Best Time to Contact:** %s\n", orDash(snap.Contact.BestTimeToContact))
}

func writeResults(b *strings.Builder, snap wizard.Snapshot, f assessment.Facility, leadID string) {
	b.WriteString("# Your Personalized Recommendation\n\n")
	if rec := snap.Recommendation; rec != nil {
		fmt.Fprintf(b, "## %s\n\n%s\n\n", rec.Title, rec.Description)
		if snap.Score != nil {
			fmt.Fprintf(b, "Memory care score: **%d/%d**\n\n", *snap.Score, assessment.MaxMemoryCareScore)
		}
		b.WriteString("### What This Includes\n\n")
		for _, feature := range rec.Features {
			fmt.Fprintf(b, "- %s\n", feature)
		}
		b.WriteString("\n### Your Recommended Living Spaces\n\n")
		for i, src := range rec.SuiteImages {
			fmt.Fprintf(b, "- Suite %d: %s\n", i+1, src)
		}
		b.WriteString("\n")
	}
	if video := f.VideoFor(snap.Answers.OccupancyType); video.URL != "" {
		fmt.Fprintf(b, "### %s\n\n%s\n\n", video.Heading, video.URL)
	}
	if snap.Contact.Name != "" {
		fmt.Fprintf(b, "### Thank you, %s!\n\n", snap.Contact.Name)
	}
	b.WriteString("### What happens next?\n\n")
	b.WriteString("1. Personal consultation\n2. Schedule a tour\n3. Explore your options\n\n")
	if f.TourURL != "" {
		fmt.Fprintf(b, "Schedule a Tour: %s\n\n", f.TourURL)
	}
	fmt.Fprintf(b, "Questions? Call us at **%s**\n", f.Phone)
	if leadID != "" {
		fmt.Fprintf(b, "\nReference: `%s`\n", leadID)
	}
}

func writeErrors(b *strings.Builder, opts render.RenderOptions) {
	messages := render.MergeFormErrors(opts.Form)
	for _, path := range sortedKeys(opts.Errors) {
		for _, message := range opts.Errors[path] {
			messages = append(messages, fmt.Sprintf("%s: %s", path, message))
		}
	}
	if len(messages) == 0 {
		return
	}
	b.WriteString("\n")
	for _, message := range messages {
		fmt.Fprintf(b, "- **%s**\n", message)
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
