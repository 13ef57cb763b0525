package knowledge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/subodh10000/neptou-backend/internal/types"
)

// Dataset holds the static tourism place records, loaded once at startup and
// read-only afterwards. A missing file is not fatal: lookups then resolve
// nothing and the rest of the system degrades gracefully.
type Dataset struct {
	logger *slog.Logger
	places []types.TourismPlace
	byName map[string]int
}

// NewDataset loads the tourism place records from path.
func NewDataset(path string, logger *slog.Logger) *Dataset {
	d := &Dataset{
		logger: logger,
		byName: make(map[string]int),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Tourism dataset not found, place lookups will resolve nothing",
			slog.String("path", path), slog.Any("error", err))
		return d
	}

	var places []types.TourismPlace
	if err := json.Unmarshal(raw, &places); err != nil {
		logger.Error("Failed to parse tourism dataset, continuing with empty collection",
			slog.String("path", path), slog.Any("error", err))
		return d
	}

	d.places = places
	for i, p := range places {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, exists := d.byName[key]; !exists {
			d.byName[key] = i
		}
	}

	logger.Info("Tourism dataset loaded", slog.Int("places", len(places)), slog.String("path", path))
	return d
}

// Len returns the number of loaded place records.
func (d *Dataset) Len() int { return len(d.places) }

// LookupPlace resolves a place name (case-insensitive exact match) to its
// geographic and administrative facts. Records without coordinates do not
// resolve: the optimizer treats such places as non-geographic.
func (d *Dataset) LookupPlace(name string) (types.PlaceLocation, bool) {
	idx, ok := d.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return types.PlaceLocation{}, false
	}

	p := d.places[idx]
	if p.Location.Latitude == 0 && p.Location.Longitude == 0 {
		return types.PlaceLocation{}, false
	}

	return types.PlaceLocation{
		Name:       p.Name,
		Latitude:   p.Location.Latitude,
		Longitude:  p.Location.Longitude,
		Area:       p.Location.Area,
		District:   DistrictFromArea(p.Location.Area, p.Name),
		Category:   p.Category,
		TimeNeeded: p.TimeNeeded,
	}, true
}

// TopRatedInDistrict returns up to limit place names in the given district,
// best rated first, excluding any name already present.
func (d *Dataset) TopRatedInDistrict(district string, exclude []string, limit int) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(name)] = true
	}

	type rated struct {
		name   string
		rating float64
	}
	var candidates []rated
	for _, p := range d.places {
		if excluded[strings.ToLower(p.Name)] {
			continue
		}
		if DistrictFromArea(p.Location.Area, p.Name) != district {
			continue
		}
		rating := p.GoogleRating
		if rating == 0 {
			rating = p.Rating
		}
		candidates = append(candidates, rated{name: p.Name, rating: rating})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rating > candidates[j].rating
	})

	names := make([]string, 0, limit)
	for _, c := range candidates {
		if len(names) >= limit {
			break
		}
		names = append(names, c.name)
	}
	return names
}

// PlaceFilter narrows the places listing.
type PlaceFilter struct {
	Category string
	Area     string
	Search   string
	Limit    int
}

// FilterPlaces returns dataset records matching the filter, preserving load
// order. The total count of loaded records is returned alongside.
func (d *Dataset) FilterPlaces(filter PlaceFilter) ([]types.TourismPlace, int) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	search := strings.ToLower(filter.Search)
	var out []types.TourismPlace
	for _, p := range d.places {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.Area != "" && !strings.EqualFold(p.Location.Area, filter.Area) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(p.NameNepali), search) {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out, len(d.places)
}

// districtAreas maps lowercase area keywords to their coarse district label.
// Ordered: the first matching keyword wins, so the Dang check outranks the
// districts listed after it. Dang alone also matches on the place name.
var districtAreas = []struct {
	keyword   string
	district  string
	matchName bool
}{
	{keyword: "kathmandu", district: "Kathmandu"},
	{keyword: "thamel", district: "Kathmandu"},
	{keyword: "boudha", district: "Kathmandu"},
	{keyword: "gaushala", district: "Kathmandu"},
	{keyword: "swayambhu", district: "Kathmandu"},
	{keyword: "pokhara", district: "Pokhara"},
	{keyword: "lakeside", district: "Pokhara"},
	{keyword: "sarangkot", district: "Pokhara"},
	{keyword: "dang", district: "Dang", matchName: true},
	{keyword: "kailali", district: "Kailali"},
	{keyword: "dhangadhi", district: "Kailali"},
	{keyword: "tikapur", district: "Kailali"},
	{keyword: "chitwan", district: "Chitwan"},
	{keyword: "sauraha", district: "Chitwan"},
	{keyword: "lumbini", district: "Lumbini"},
	{keyword: "bhaktapur", district: "Bhaktapur"},
	{keyword: "patan", district: "Patan"},
	{keyword: "nagarkot", district: "Nagarkot"},
}

// DistrictFromArea maps a free-text area label (and, for Dang, the place name
// itself) onto the closed set of district labels used for day grouping. When
// nothing matches, the original area label is returned as-is.
func DistrictFromArea(area, placeName string) string {
	areaLower := strings.ToLower(area)
	nameLower := strings.ToLower(placeName)

	for _, m := range districtAreas {
		if strings.Contains(areaLower, m.keyword) || (m.matchName && strings.Contains(nameLower, m.keyword)) {
			return m.district
		}
	}
	return area
}

// CityContext builds a trusted-facts block about the requested cities for the
// model prompt. Unknown cities contribute nothing.
func CityContext(cities []string) string {
	var b strings.Builder
	for _, city := range cities {
		facts, ok := cityFacts[strings.ToLower(strings.TrimSpace(city))]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n[FACTS ABOUT %s]\n", strings.ToUpper(city))
		fmt.Fprintf(&b, "Description: %s\n", facts.Description)
		fmt.Fprintf(&b, "Top Highlights: %s\n", strings.Join(facts.Highlights, ", "))
		fmt.Fprintf(&b, "Must-Try Food: %s\n", strings.Join(facts.Food, ", "))
		fmt.Fprintf(&b, "Hidden Gems: %s\n", strings.Join(facts.HiddenGems, ", "))
	}
	return b.String()
}

type cityFactEntry struct {
	Description string
	Highlights  []string
	Food        []string
	HiddenGems  []string
}

var cityFacts = map[string]cityFactEntry{
	"kathmandu": {
		Description: "The capital city, a living museum of temples and courtyards.",
		Highlights:  []string{"Swayambhunath", "Pashupatinath", "Boudhanath", "Durbar Squares"},
		Food:        []string{"Newari Khaja Set", "Juju Dhau", "Yomari"},
		HiddenGems:  []string{"Garden of Dreams", "Kopan Monastery"},
	},
	"pokhara": {
		Description: "The city of lakes and the gateway to the Annapurna circuit.",
		Highlights:  []string{"Phewa Lake", "Sarangkot", "World Peace Pagoda"},
		Food:        []string{"Thakali Set", "Fresh Lake Fish"},
		HiddenGems:  []string{"Begnas Lake", "Methlang"},
	},
	"lalitpur": {
		Description: "Historically known as Patan, the city of fine arts.",
		Highlights:  []string{"Patan Durbar Square", "Krishna Mandir", "Golden Temple"},
		Food:        []string{"Wo (Lentil Patties)", "Chatamari"},
		HiddenGems:  []string{"Pimbahal Pond", "Mahabouddha Temple"},
	},
	"bhaktapur": {
		Description: "The city of devotees, preserved in its medieval form.",
		Highlights:  []string{"Nyatapola Temple", "55 Window Palace", "Pottery Square"},
		Food:        []string{"Juju Dhau (King Curd)", "Bara"},
		HiddenGems:  []string{"Siddha Pokhari", "Dattatreya Square"},
	},
	"dang": {
		Description: "The largest inner valley of Asia, rich in Tharu culture. Located in the Terai region, Dang is known for its fertile plains, traditional Tharu villages, and unique cultural heritage.",
		Highlights:  []string{"Dharapani (World's tallest Trishul)", "Jakhera Lake", "Tharu Cultural Museum", "Rapti River", "Salyan Gadhi", "Bageshwori Temple"},
		Food:        []string{"Dhikri (steamed rice flour rolls)", "Ghonghi (snail curry)", "Anadi Rice (red rice)", "Sidhara (dried fish curry)", "Bhakka (rice flour dumplings)", "Gundruk (fermented leafy greens)", "Masaura (dried lentil balls)", "Tharu Thali (traditional platter)", "Bhatmas (soybean curry)", "Kachila (raw minced meat)"},
		HiddenGems:  []string{"Chamera Gupha (Bat Cave)", "Purandhara Waterfall", "Rani Tal (Queen's Pond)", "Dang Valley Viewpoint", "Tharu Homestays", "Salyan Gadhi Fort"},
	},
	"kailali": {
		Description: "The gateway to Far-West Nepal, known for Tikapur Park and Tharu heritage.",
		Highlights:  []string{"Tikapur Great Garden", "Karnali Bridge", "Dolphin Conservation Area"},
		Food:        []string{"Tharu Cuisine", "Local Fish"},
		HiddenGems:  []string{"Ghodaghodi Lake (Wetland)", "Mohana River Corridor"},
	},
}
