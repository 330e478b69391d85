package catalogue

import (
	"sort"
	"strings"

	"github.com/Skotchmaster/game_shop/internal/models"
)

// Bounds used for the sliders when the catalogue is empty.
const (
	emptyMin = 0
	emptyMax = 100
)

type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Criteria are the user supplied filters. Nil range ends fall back to the
// observed catalogue bounds.
type Criteria struct {
	Title    string
	Genres   []string
	MinPrice *float64
	MaxPrice *float64
	MinSize  *float64
	MaxSize  *float64
}

// Item is a game together with the numeric values derived from its display
// fields for this request.
type Item struct {
	Game  models.Game
	Price float64
	Size  float64
}

type Result struct {
	Items []Item

	// Facets, computed over the whole catalogue.
	Genres      []string
	PriceBounds Range
	SizeBounds  Range

	// Applied filters.
	Title          string
	SelectedGenres []string
	Price          Range
	Size           Range
}

// Genres returns the distinct genre tags of games, sorted.
func Genres(games []models.Game) []string {
	seen := make(map[string]struct{})
	for _, g := range games {
		for _, tag := range g.Genres() {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func derive(games []models.Game) []Item {
	items := make([]Item, len(games))
	for i, g := range games {
		items[i] = Item{Game: g, Price: ParsePrice(g.Price), Size: ParseSize(g.Size)}
	}
	return items
}

func bounds(items []Item, value func(Item) float64) Range {
	if len(items) == 0 {
		return Range{Min: emptyMin, Max: emptyMax}
	}
	r := Range{Min: value(items[0]), Max: value(items[0])}
	for _, it := range items[1:] {
		v := value(it)
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}

func pick(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Filter applies crit to games, hiding everything in owned. games must be in
// catalogue order; the order is kept in the result.
func Filter(games []models.Game, owned map[uint]struct{}, crit Criteria) Result {
	items := derive(games)

	res := Result{
		Genres:      Genres(games),
		PriceBounds: bounds(items, func(it Item) float64 { return it.Price }),
		SizeBounds:  bounds(items, func(it Item) float64 { return it.Size }),
		Title:       crit.Title,
	}
	res.Price = Range{Min: pick(crit.MinPrice, res.PriceBounds.Min), Max: pick(crit.MaxPrice, res.PriceBounds.Max)}
	res.Size = Range{Min: pick(crit.MinSize, res.SizeBounds.Min), Max: pick(crit.MaxSize, res.SizeBounds.Max)}

	selected := make(map[string]struct{}, len(crit.Genres))
	for _, g := range crit.Genres {
		if g == "" {
			continue
		}
		if _, dup := selected[g]; !dup {
			res.SelectedGenres = append(res.SelectedGenres, g)
		}
		selected[g] = struct{}{}
	}
	title := strings.ToLower(crit.Title)

	res.Items = make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := owned[it.Game.ID]; ok {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(it.Game.Title), title) {
			continue
		}
		if len(selected) > 0 && !anyGenre(it.Game.Genres(), selected) {
			continue
		}
		if !res.Price.contains(it.Price) || !res.Size.contains(it.Size) {
			continue
		}
		res.Items = append(res.Items, it)
	}
	return res
}

func anyGenre(tags []string, selected map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := selected[t]; ok {
			return true
		}
	}
	return false
}
