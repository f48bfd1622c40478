// Package search ranks potential opponents for a player by skill, rating,
// distance, style, surface, and shared availability.
package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tennismeet/tennismeet/internal/elo"
	"github.com/tennismeet/tennismeet/internal/metrics"
	"github.com/tennismeet/tennismeet/internal/players"
)

const earthRadiusMiles = 3959

// DistanceMiles is the haversine great-circle distance between two
// coordinates in miles.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// Filters narrows the candidate pool. All set fields must pass (conjunctive).
type Filters struct {
	SkillLevels       []players.SkillLevel
	PlayStyles        []players.PlayStyle
	PreferredSurfaces []players.Surface
	Availability      []string
	MaxDistance       float64
	MinElo            *int
	MaxElo            *int
	Query             string
}

// Weights controls how the six factors combine into the 0-100 match score.
// They should sum to 1.0.
type Weights struct {
	SkillLevelMatch   float64
	EloProximity      float64
	DistanceProximity float64
	PlayStyleMatch    float64
	SurfaceMatch      float64
	AvailabilityMatch float64
}

// DefaultWeights is the standard factor weighting.
var DefaultWeights = Weights{
	SkillLevelMatch:   0.25,
	EloProximity:      0.20,
	DistanceProximity: 0.20,
	PlayStyleMatch:    0.15,
	SurfaceMatch:      0.10,
	AvailabilityMatch: 0.10,
}

// Result is one ranked candidate: the player, their match score (0-100), and
// their distance from the searching player in miles.
type Result struct {
	Player     *players.Player `json:"player"`
	MatchScore int             `json:"match_score"`
	Distance   float64         `json:"distance"`
}

// Engine runs ranked player searches.
type Engine struct {
	metrics metrics.Metrics
}

// NewEngine creates a search Engine.
func NewEngine(metrics metrics.Metrics) *Engine {
	return &Engine{metrics: metrics}
}

func skillLevelScore(current, target players.SkillLevel) float64 {
	switch abs(current.Index() - target.Index()) {
	case 0:
		return 1.0
	case 1:
		return 0.5
	case 2:
		return 0.25
	default:
		return 0.1
	}
}

func eloScore(current, target int) float64 {
	difference := abs(current - target)
	switch {
	case difference <= 100:
		return 1.0
	case difference <= 200:
		return 0.8
	case difference <= 300:
		return 0.6
	case difference <= 400:
		return 0.4
	case difference <= 500:
		return 0.2
	default:
		return 0.1
	}
}

func distanceScore(miles float64) float64 {
	switch {
	case miles <= 5:
		return 1.0
	case miles <= 10:
		return 0.8
	case miles <= 15:
		return 0.6
	case miles <= 20:
		return 0.4
	case miles <= 30:
		return 0.2
	default:
		return 0.1
	}
}

// complementaryStyles lists pairings that make for an interesting match.
var complementaryStyles = [][2]players.PlayStyle{
	{players.StyleAggressive, players.StyleDefensive},
	{players.StyleServeAndVolley, players.StyleBaseline},
}

func playStyleScore(current, target players.PlayStyle) float64 {
	if current == "" || target == "" {
		return 0.5
	}
	if current == target {
		return 1.0
	}
	if current == players.StyleAllCourt || target == players.StyleAllCourt {
		return 0.8
	}
	for _, pair := range complementaryStyles {
		if (pair[0] == current && pair[1] == target) || (pair[1] == current && pair[0] == target) {
			return 0.7
		}
	}
	return 0.5
}

func surfaceScore(current, target players.Surface) float64 {
	if current == "" || target == "" {
		return 0.5
	}
	if current == players.SurfaceAny || target == players.SurfaceAny {
		return 0.8
	}
	if current == target {
		return 1.0
	}
	return 0.3
}

func availabilityScore(current, target []string) float64 {
	if len(current) == 0 || len(target) == 0 {
		return 0.5
	}
	shared := 0
	for _, slot := range current {
		if containsString(target, slot) {
			shared++
		}
	}
	switch {
	case shared == 0:
		return 0.2
	case shared >= 3:
		return 1.0
	case shared >= 2:
		return 0.8
	default:
		return 0.5
	}
}

// PlayerScore computes the weighted 0-100 match score between two players.
func PlayerScore(current, target *players.Player, weights Weights) int {
	distance := DistanceMiles(
		current.Location.Latitude, current.Location.Longitude,
		target.Location.Latitude, target.Location.Longitude,
	)

	total := skillLevelScore(current.SkillLevel, target.SkillLevel)*weights.SkillLevelMatch +
		eloScore(statElo(current), statElo(target))*weights.EloProximity +
		distanceScore(distance)*weights.DistanceProximity +
		playStyleScore(current.PlayStyle, target.PlayStyle)*weights.PlayStyleMatch +
		surfaceScore(current.PreferredSurface, target.PreferredSurface)*weights.SurfaceMatch +
		availabilityScore(current.Availability, target.Availability)*weights.AvailabilityMatch

	return int(math.Round(total * 100))
}

func statElo(p *players.Player) int {
	if p.Stats.Elo == 0 {
		return elo.DefaultRating
	}
	return p.Stats.Elo
}

// SearchPlayers filters and ranks the candidate pool for the current player.
// The current player is always excluded. Results sort by match score, best
// first, with distance as the tiebreak.
func (e *Engine) SearchPlayers(current *players.Player, all []*players.Player, filters Filters, weights Weights) []Result {
	start := time.Now()

	var results []Result
	for _, p := range all {
		if p.ID == current.ID {
			continue
		}
		if len(filters.SkillLevels) > 0 && !containsTag(filters.SkillLevels, p.SkillLevel) {
			continue
		}
		if len(filters.PlayStyles) > 0 && (p.PlayStyle == "" || !containsTag(filters.PlayStyles, p.PlayStyle)) {
			continue
		}
		if len(filters.PreferredSurfaces) > 0 {
			if p.PreferredSurface == "" {
				continue
			}
			if !containsTag(filters.PreferredSurfaces, p.PreferredSurface) && p.PreferredSurface != players.SurfaceAny {
				continue
			}
		}
		if len(filters.Availability) > 0 && !anyShared(filters.Availability, p.Availability) {
			continue
		}
		if filters.MinElo != nil && p.Stats.Elo < *filters.MinElo {
			continue
		}
		if filters.MaxElo != nil && p.Stats.Elo > *filters.MaxElo {
			continue
		}
		if filters.Query != "" {
			query := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(p.Name), query) &&
				!strings.Contains(strings.ToLower(p.Bio), query) {
				continue
			}
		}

		distance := DistanceMiles(
			current.Location.Latitude, current.Location.Longitude,
			p.Location.Latitude, p.Location.Longitude,
		)
		if filters.MaxDistance > 0 && distance > filters.MaxDistance {
			continue
		}

		results = append(results, Result{
			Player:     p,
			MatchScore: PlayerScore(current, p, weights),
			Distance:   distance,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].Distance < results[j].Distance
	})

	e.metrics.IncPlayerSearches()
	e.metrics.ObserveSearchDuration(time.Since(start).Seconds())
	return results
}

// RecommendedPlayers returns the top matches with no filters applied.
func (e *Engine) RecommendedPlayers(current *players.Player, all []*players.Player, limit int) []Result {
	if limit <= 0 {
		limit = 10
	}
	results := e.SearchPlayers(current, all, Filters{}, DefaultWeights)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// NearbyPlayers returns players within maxDistance miles, best matches first.
func (e *Engine) NearbyPlayers(current *players.Player, all []*players.Player, maxDistance float64, limit int) []Result {
	if maxDistance <= 0 {
		maxDistance = 15
	}
	results := e.SearchPlayers(current, all, Filters{MaxDistance: maxDistance}, DefaultWeights)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// SimilarSkillPlayers returns players within one tier of the current player's
// skill level.
func (e *Engine) SimilarSkillPlayers(current *players.Player, all []*players.Player, limit int) []Result {
	levels := players.Levels()
	idx := current.SkillLevel.Index()
	if idx < 0 {
		idx = 0
	}

	wanted := []players.SkillLevel{levels[max(0, idx-1)], current.SkillLevel, levels[min(len(levels)-1, idx+1)]}

	results := e.SearchPlayers(current, all, Filters{SkillLevels: wanted}, DefaultWeights)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func containsTag[T ~string](haystack []T, needle T) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	return containsTag(haystack, needle)
}

func anyShared(want, have []string) bool {
	for _, w := range want {
		if containsString(have, w) {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
