package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// EmergencyContacts is the static emergency directory for tourists in Nepal.
// Loaded read-only; the embedding script mirrors it into the search index.
var EmergencyContacts = []types.EmergencyContact{
	{
		Name:           "Bibek KC",
		Phone:          "98484488888",
		Category:       "local_agent",
		Location:       "Kathmandu",
		Description:    "Neptou emergency agent - available for tourist assistance, emergency help, and local support in Kathmandu. Speaks Nepali and English.",
		Available247:   true,
		Languages:      []string{"Nepali", "English"},
		AdditionalInfo: "Neptou's dedicated emergency contact for tourists. Can assist with directions, emergencies, translations, and local help.",
	},
	{
		Name:         "Police Emergency",
		Phone:        "100",
		Category:     "police",
		Location:     "Nepal-wide",
		Description:  "General police emergency number for all emergencies requiring police assistance.",
		Available247: true,
		Languages:    []string{"Nepali", "English", "Hindi"},
	},
	{
		Name:         "Tourist Police",
		Phone:        "+977-1-4247041",
		Category:     "tourist",
		Location:     "Kathmandu",
		Description:  "24/7 tourist police service. Specialized help for tourists with translation services and tourist-specific issues.",
		Available247: true,
		Languages:    []string{"Nepali", "English", "Hindi", "Chinese"},
	},
	{
		Name:         "Ambulance",
		Phone:        "102",
		Category:     "medical",
		Location:     "Nepal-wide",
		Description:  "Medical emergency ambulance service. Call for medical emergencies requiring immediate transport to hospital.",
		Available247: true,
		Languages:    []string{"Nepali", "English"},
	},
	{
		Name:           "CIWEC Clinic",
		Phone:          "+977-1-4424111",
		Category:       "medical",
		Location:       "Kathmandu",
		Description:    "Travel medicine clinic specializing in travel-related health issues, vaccinations, and altitude sickness treatment.",
		Languages:      []string{"Nepali", "English"},
		AdditionalInfo: "Open 9 AM - 5 PM. Best for travel health consultations.",
	},
	{
		Name:         "Norvic International Hospital",
		Phone:        "+977-1-5970123",
		Category:     "medical",
		Location:     "Kathmandu",
		Description:  "International standard hospital with 24/7 emergency services. English-speaking staff available.",
		Available247: true,
		Languages:    []string{"Nepali", "English"},
	},
	{
		Name:         "Fire Department",
		Phone:        "101",
		Category:     "fire",
		Location:     "Nepal-wide",
		Description:  "Fire emergency service. Call for fire emergencies.",
		Available247: true,
		Languages:    []string{"Nepali", "English"},
	},
	{
		Name:           "Nepal Tourism Board",
		Phone:          "+977-1-4256909",
		Category:       "tourist",
		Location:       "Kathmandu",
		Description:    "Official tourism board. Information about tourism, permits, and general tourist assistance.",
		Languages:      []string{"Nepali", "English"},
		AdditionalInfo: "Open 9 AM - 5 PM, Sunday-Friday",
	},
	{
		Name:         "US Embassy",
		Phone:        "+977-1-4234000",
		Category:     "embassy",
		Location:     "Kathmandu",
		Description:  "US Embassy in Kathmandu. Emergency assistance for US citizens.",
		Available247: true,
		Languages:    []string{"English", "Nepali"},
	},
	{
		Name:         "UK Embassy",
		Phone:        "+977-1-4410583",
		Category:     "embassy",
		Location:     "Kathmandu",
		Description:  "British Embassy in Kathmandu. Emergency assistance for UK citizens.",
		Available247: true,
		Languages:    []string{"English", "Nepali"},
	},
	{
		Name:         "Indian Embassy",
		Phone:        "+977-1-4410900",
		Category:     "embassy",
		Location:     "Kathmandu",
		Description:  "Indian Embassy in Kathmandu. Emergency assistance for Indian citizens.",
		Available247: true,
		Languages:    []string{"Hindi", "English", "Nepali"},
	},
	{
		Name:         "Chinese Embassy",
		Phone:        "+977-1-4411740",
		Category:     "embassy",
		Location:     "Kathmandu",
		Description:  "Chinese Embassy in Kathmandu. Emergency assistance for Chinese citizens.",
		Available247: true,
		Languages:    []string{"Chinese", "English", "Nepali"},
	},
}

// EmergencyContactsByLocation filters the directory by location substring.
// An empty location returns everything.
func EmergencyContactsByLocation(location string) []types.EmergencyContact {
	if location == "" {
		return EmergencyContacts
	}
	locationLower := strings.ToLower(location)
	var out []types.EmergencyContact
	for _, c := range EmergencyContacts {
		if strings.Contains(strings.ToLower(c.Location), locationLower) {
			out = append(out, c)
		}
	}
	return out
}

// EmergencyContactsByCategory filters the directory by exact category.
func EmergencyContactsByCategory(category string) []types.EmergencyContact {
	var out []types.EmergencyContact
	for _, c := range EmergencyContacts {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

var emergencyCategoryKeywords = []string{"police", "medical", "ambulance", "fire", "embassy", "tourist"}

// SearchEmergencyContacts scores the directory against a free-text query.
// The local agent is boosted heavily for help/passport/emergency phrasings so
// it surfaces first. Results are ordered best score first; zero-score contacts
// are omitted.
func SearchEmergencyContacts(query string) []types.EmergencyContact {
	queryLower := strings.ToLower(query)

	type scored struct {
		score   int
		index   int
		contact types.EmergencyContact
	}
	var results []scored

	for i, contact := range EmergencyContacts {
		score := 0

		if strings.Contains(strings.ToLower(contact.Name), queryLower) {
			score += 3
		}
		if strings.Contains(strings.ToLower(contact.Location), queryLower) || strings.Contains(queryLower, "kathmandu") {
			score += 2
		}
		if strings.Contains(contact.Category, queryLower) || containsAny(queryLower, emergencyCategoryKeywords) {
			score += 2
		}
		if strings.Contains(strings.ToLower(contact.Description), queryLower) {
			score++
		}

		isAgent := contact.Category == "local_agent" || strings.Contains(strings.ToLower(contact.Name), "bibek")
		if isAgent {
			if strings.Contains(queryLower, "bibek") || strings.Contains(queryLower, "neptou") || strings.Contains(queryLower, "local agent") {
				score += 10
			}
			if containsAny(queryLower, []string{"lost", "passport", "help", "assistance", "support", "need"}) {
				score += 8
			}
			if strings.Contains(queryLower, "passport") || strings.Contains(queryLower, "embassy") {
				score += 7
			}
			if strings.Contains(queryLower, "kathmandu") || strings.Contains(queryLower, "emergency") {
				score += 5
			}
		}

		if score > 0 {
			results = append(results, scored{score: score, index: i, contact: contact})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	out := make([]types.EmergencyContact, 0, len(results))
	for _, r := range results {
		out = append(out, r.contact)
	}
	return out
}

// FormatEmergencyContacts renders contacts as a verified-information block for
// the model prompt, with the local agent listed first.
func FormatEmergencyContacts(contacts []types.EmergencyContact, maxContacts int) string {
	if len(contacts) == 0 {
		return ""
	}

	var agents, others []types.EmergencyContact
	for _, c := range contacts {
		if c.Category == "local_agent" || strings.Contains(strings.ToLower(c.Name), "bibek") {
			agents = append(agents, c)
		} else {
			others = append(others, c)
		}
	}
	ordered := append(agents, others...)
	if len(ordered) > maxContacts {
		ordered = ordered[:maxContacts]
	}

	var b strings.Builder
	b.WriteString("\n[EMERGENCY CONTACTS - VERIFIED INFORMATION]\n")
	for _, c := range ordered {
		if c.Category == "local_agent" {
			fmt.Fprintf(&b, "\n%s - NEPTOU EMERGENCY AGENT (RECOMMENDED FIRST)\n", c.Name)
		} else {
			fmt.Fprintf(&b, "\n%s\n", c.Name)
		}
		fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
		fmt.Fprintf(&b, "Category: %s\n", c.Category)
		fmt.Fprintf(&b, "Location: %s\n", c.Location)
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
		if c.Available247 {
			b.WriteString("Available: 24/7\n")
		}
		if len(c.Languages) > 0 {
			fmt.Fprintf(&b, "Languages: %s\n", strings.Join(c.Languages, ", "))
		}
		if c.AdditionalInfo != "" {
			fmt.Fprintf(&b, "Additional Info: %s\n", c.AdditionalInfo)
		}
	}
	return b.String()
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
