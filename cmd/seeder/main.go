package main

import (
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/tennismeet/tennismeet/internal/availability"
	"github.com/tennismeet/tennismeet/internal/court"
	"github.com/tennismeet/tennismeet/internal/database"
	"github.com/tennismeet/tennismeet/internal/match"
	"github.com/tennismeet/tennismeet/internal/metrics"
	"github.com/tennismeet/tennismeet/internal/players"
)

const (
	numPlayers = 24
	numCourts  = 8
	numMatches = 120
)

// Downtown Austin; player and court coordinates are scattered around it.
const (
	centerLat = 30.2672
	centerLon = -97.7431
)

var availabilityTags = []string{
	"weekday-morning", "weekday-evening",
	"weekend-morning", "weekend-afternoon", "weekend-evening",
}

// Simplified config loading for the script
func loadDBName() string {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	name, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatal("Error: Required environment variable DB_NAME is not set.")
	}
	return name
}

func main() {
	start := time.Now()
	log.SetFormatter(log.JSONFormatter)
	log.Info("Starting database seeder...")
	dbName := loadDBName()

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	faker := gofakeit.New(0)
	m := metrics.NewService()

	playerStore := players.New(db)
	matchStore := match.New(db, m)
	courtStore := court.New(db)
	availManager := availability.NewManager(availability.New(db), m)

	roster := seedPlayers(faker, playerStore)
	seedCourts(faker, courtStore)
	seedTimeBlocks(faker, availManager, roster)
	seedMatches(faker, playerStore, matchStore, roster)

	m.SetStartupTime(time.Since(start).Seconds())
	log.Info("Seeding complete.", "players", numPlayers, "courts", numCourts, "matches", numMatches, "duration", time.Since(start))
}

func seedPlayers(faker *gofakeit.Faker, store players.Store) []*players.Player {
	levels := players.Levels()
	styles := []players.PlayStyle{
		players.StyleAggressive, players.StyleDefensive, players.StyleAllCourt,
		players.StyleServeAndVolley, players.StyleBaseline,
	}
	surfaces := append(players.Surfaces(), players.SurfaceAny)

	roster := make([]*players.Player, 0, numPlayers)
	now := time.Now()
	for i := 0; i < numPlayers; i++ {
		tags := make([]string, 0, 3)
		for _, tag := range availabilityTags {
			if faker.Bool() {
				tags = append(tags, tag)
			}
		}

		p := &players.Player{
			ID:               uuid.NewString(),
			Name:             faker.Name(),
			Email:            faker.Email(),
			Bio:              faker.Sentence(8),
			SkillLevel:       levels[faker.Number(0, len(levels)-1)],
			PlayStyle:        styles[faker.Number(0, len(styles)-1)],
			PreferredSurface: surfaces[faker.Number(0, len(surfaces)-1)],
			Availability:     tags,
			Location: players.Location{
				Latitude:  centerLat + faker.Float64Range(-0.2, 0.2),
				Longitude: centerLon + faker.Float64Range(-0.2, 0.2),
				City:      "Austin",
				State:     "TX",
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		p.Stats.Elo = 1200
		roster = append(roster, p)
	}

	if err := store.UpsertPlayers(roster); err != nil {
		log.Fatalf("Failed to insert players: %s", err)
	}
	log.Info("Inserted players.", "count", len(roster))
	return roster
}

func seedCourts(faker *gofakeit.Faker, store court.Store) {
	surfaces := players.Surfaces()
	policies := []court.AvailabilityPolicy{
		court.AvailabilityPublic, court.AvailabilityMembersOnly, court.AvailabilityReservation,
	}
	amenities := []court.Amenity{
		court.AmenityLights, court.AmenityParking, court.AmenityRestrooms,
		court.AmenityProShop, court.AmenityWater, court.AmenitySeating,
	}

	now := time.Now()
	for i := 0; i < numCourts; i++ {
		picked := make([]court.Amenity, 0, 3)
		for _, a := range amenities {
			if faker.Bool() {
				picked = append(picked, a)
			}
		}

		hours := make([]court.DayHours, 0, 7)
		for day := time.Sunday; day <= time.Saturday; day++ {
			hours = append(hours, court.DayHours{
				Weekday:   day,
				OpenTime:  "07:00",
				CloseTime: "22:00",
			})
		}

		c := &court.Court{
			ID:          uuid.NewString(),
			Name:        faker.Company() + " Tennis Center",
			Description: faker.Sentence(10),
			Location: court.Location{
				Address:   faker.Street(),
				City:      "Austin",
				State:     "TX",
				Latitude:  centerLat + faker.Float64Range(-0.15, 0.15),
				Longitude: centerLon + faker.Float64Range(-0.15, 0.15),
			},
			Surface:        surfaces[faker.Number(0, len(surfaces)-1)],
			IsIndoor:       faker.Bool(),
			Amenities:      picked,
			Availability:   policies[faker.Number(0, len(policies)-1)],
			OperatingHours: hours,
			Pricing: &court.Pricing{
				HourlyRate: float64(faker.Number(10, 45)),
				Currency:   "USD",
			},
			Rating: court.Rating{
				AverageRating: faker.Float64Range(3.0, 5.0),
				RatingCount:   faker.Number(5, 200),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.UpsertCourt(c); err != nil {
			log.Fatalf("Failed to insert court %s: %s", c.Name, err)
		}
	}
	log.Info("Inserted courts.", "count", numCourts)
}

func seedTimeBlocks(faker *gofakeit.Faker, mgr *availability.Manager, roster []*players.Player) {
	slots := [][2]string{{"07:00", "09:00"}, {"09:00", "11:00"}, {"17:00", "19:00"}, {"18:00", "20:00"}}
	created := 0
	for _, p := range roster {
		for offset := 1; offset <= 14; offset++ {
			if !faker.Bool() {
				continue
			}
			slot := slots[faker.Number(0, len(slots)-1)]

			result := mgr.CreateBlock(&availability.TimeBlock{
				PlayerID:  p.ID,
				Date:      time.Now().AddDate(0, 0, offset).Format(availability.DateLayout),
				StartTime: slot[0],
				EndTime:   slot[1],
			})
			if result.Success {
				created++
			}
		}
	}
	log.Info("Inserted time blocks.", "count", created)
}

// seedMatches records completed matches between random pairs. Ratings are
// re-read after every match so each result builds on the previous one.
func seedMatches(faker *gofakeit.Faker, playerStore players.Store, matchStore match.Store, roster []*players.Player) {
	for i := 0; i < numMatches; i++ {
		a := roster[faker.Number(0, len(roster)-1)]
		b := roster[faker.Number(0, len(roster)-1)]
		if a.ID == b.ID {
			continue
		}

		p1, err := playerStore.GetPlayer(a.ID)
		if err != nil {
			log.Fatalf("Failed to load player %s: %s", a.ID, err)
		}
		p2, err := playerStore.GetPlayer(b.ID)
		if err != nil {
			log.Fatalf("Failed to load player %s: %s", b.ID, err)
		}

		sets := randomScore(faker)
		surfaces := players.Surfaces()
		rec, err := match.Create(p1, p2, sets, match.Location{Name: "Seeded Court", City: "Austin"}, surfaces[faker.Number(0, len(surfaces)-1)], "")
		if err != nil {
			log.Fatalf("Failed to create match: %s", err)
		}
		if err := matchStore.RecordMatch(rec); err != nil {
			log.Fatalf("Failed to record match: %s", err)
		}
	}
	log.Info("Recorded matches.")
}

// randomScore produces a valid best-of-three score from player 1's side.
func randomScore(faker *gofakeit.Faker) []match.Set {
	p1Wins := faker.Bool()
	winnerSet := func() match.Set {
		games := faker.Number(0, 4)
		if p1Wins {
			return match.Set{Player1Games: 6, Player2Games: games}
		}
		return match.Set{Player1Games: games, Player2Games: 6}
	}
	loserSet := func() match.Set {
		games := faker.Number(0, 4)
		if p1Wins {
			return match.Set{Player1Games: games, Player2Games: 6}
		}
		return match.Set{Player1Games: 6, Player2Games: games}
	}

	if faker.Bool() {
		return []match.Set{winnerSet(), winnerSet()}
	}
	return []match.Set{winnerSet(), loserSet(), winnerSet()}
}
