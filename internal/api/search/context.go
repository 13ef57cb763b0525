package search

import (
	"fmt"
	"strings"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// FormatContext renders search results into the grounding block injected into
// AI prompts. Entries are grouped by kind so the model sees guides, places,
// tips and emergency contacts in distinct sections. Returns "" for no results.
func FormatContext(results []types.ScoredEntry, maxEntries int) string {
	if len(results) == 0 {
		return ""
	}
	if maxEntries > 0 && len(results) > maxEntries {
		results = results[:maxEntries]
	}

	var guides, places, insights, contacts []types.ScoredEntry
	for _, r := range results {
		switch r.Entry.Kind {
		case types.EntryKindGuide:
			guides = append(guides, r)
		case types.EntryKindLocalInsight:
			insights = append(insights, r)
		case types.EntryKindEmergencyContact:
			contacts = append(contacts, r)
		default:
			places = append(places, r)
		}
	}

	var b strings.Builder
	b.WriteString("\n[RELEVANT INFORMATION FROM KNOWLEDGE BASE]\n")

	if len(guides) > 0 {
		b.WriteString("\n[LOCAL GUIDES]\n")
		for _, r := range guides {
			g := r.Entry.Guide
			area := g.Area
			if area == "" {
				area = "Nepal"
			}
			fmt.Fprintf(&b, "\n- %s\n", r.Entry.Name)
			fmt.Fprintf(&b, "  Location: %s\n", area)
			if g.Bio != "" {
				fmt.Fprintf(&b, "  %s\n", g.Bio)
			}
			if len(g.Specialties) > 0 {
				fmt.Fprintf(&b, "  Specialties: %s\n", strings.Join(g.Specialties, ", "))
			}
			if len(g.Languages) > 0 {
				fmt.Fprintf(&b, "  Languages: %s\n", strings.Join(g.Languages, ", "))
			}
			if g.PricePerDay > 0 {
				fmt.Fprintf(&b, "  Price: NPR %.0f/day\n", g.PricePerDay)
			}
			if g.Rating > 0 {
				fmt.Fprintf(&b, "  Rating: %.1f/5.0\n", g.Rating)
			}
		}
	}

	if len(places) > 0 {
		b.WriteString("\n[PLACES TO VISIT]\n")
		for _, r := range places {
			p := r.Entry.Place
			category, area := "Unknown", "Unknown"
			var tags []string
			if p != nil {
				if p.Category != "" {
					category = p.Category
				}
				if p.Area != "" {
					area = p.Area
				}
				tags = p.Tags
			}
			fmt.Fprintf(&b, "\n- %s (%s)\n", r.Entry.Name, category)
			fmt.Fprintf(&b, "  Location: %s\n", area)
			if len(tags) > 0 {
				fmt.Fprintf(&b, "  Tags: %s\n", strings.Join(tags, ", "))
			}
		}
	}

	for _, r := range insights {
		in := r.Entry.Insight
		district := in.District
		if district == "" {
			district = "Nepal"
		}
		fmt.Fprintf(&b, "\n- %s (%s)\n", r.Entry.Name, district)
		fmt.Fprintf(&b, "  %s\n", in.Content)
		if len(in.Tags) > 0 {
			fmt.Fprintf(&b, "  Tags: %s\n", strings.Join(in.Tags, ", "))
		}
	}

	if len(contacts) > 0 {
		b.WriteString("\n[EMERGENCY CONTACTS]\n")
		for _, r := range contacts {
			c := r.Entry.Contact
			fmt.Fprintf(&b, "\n- %s: %s (%s)\n", r.Entry.Name, c.Phone, c.Location)
			if c.Description != "" {
				fmt.Fprintf(&b, "  %s\n", c.Description)
			}
		}
	}

	b.WriteString("\n")
	return b.String()
}
