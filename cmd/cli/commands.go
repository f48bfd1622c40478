package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tennismeet/tennismeet/internal/availability"
	"github.com/tennismeet/tennismeet/internal/court"
	"github.com/tennismeet/tennismeet/internal/elo"
	"github.com/tennismeet/tennismeet/internal/export"
	"github.com/tennismeet/tennismeet/internal/match"
	"github.com/tennismeet/tennismeet/internal/metrics"
	"github.com/tennismeet/tennismeet/internal/players"
	"github.com/tennismeet/tennismeet/internal/search"
)

var (
	searchQuery       string
	searchMaxDistance float64
	searchMinElo      int
	searchMaxElo      int
	searchLimit       int

	commonFrom        string
	commonTo          string
	commonMinDuration int

	courtSurface     string
	courtIndoor      bool
	courtMinRating   float64
	courtTerm        string
	courtLat         float64
	courtLon         float64
	courtMaxDistance float64

	exportFormat string
	exportOut    string
)

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Free-text filter against name and bio")
	searchCmd.Flags().Float64Var(&searchMaxDistance, "max-distance", 0, "Maximum distance in miles (0 means no limit)")
	searchCmd.Flags().IntVar(&searchMinElo, "min-elo", 0, "Minimum Elo rating")
	searchCmd.Flags().IntVar(&searchMaxElo, "max-elo", 0, "Maximum Elo rating")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")

	commonCmd.Flags().StringVar(&commonFrom, "from", "", "Start date (YYYY-MM-DD, required)")
	commonCmd.Flags().StringVar(&commonTo, "to", "", "End date (YYYY-MM-DD, required)")
	commonCmd.Flags().IntVar(&commonMinDuration, "min-duration", 0, "Minimum overlap in minutes (default 60)")
	availabilityCmd.AddCommand(commonCmd)

	courtsSearchCmd.Flags().StringVar(&courtSurface, "surface", "", "Court surface (hard, clay, grass, carpet)")
	courtsSearchCmd.Flags().BoolVar(&courtIndoor, "indoor", false, "Only indoor courts")
	courtsSearchCmd.Flags().Float64Var(&courtMinRating, "min-rating", 0, "Minimum average rating")
	courtsSearchCmd.Flags().StringVar(&courtTerm, "term", "", "Free-text filter against name, city, address and description")
	courtsSearchCmd.Flags().Float64Var(&courtLat, "lat", 0, "User latitude for distance sorting")
	courtsSearchCmd.Flags().Float64Var(&courtLon, "lon", 0, "User longitude for distance sorting")
	courtsSearchCmd.Flags().Float64Var(&courtMaxDistance, "max-distance", 0, "Maximum distance in km (needs --lat/--lon)")
	courtsCmd.AddCommand(courtsSearchCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, snapshot or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "tennismeet-backup", "Output file path without extension")

	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(courtsCmd)
	rootCmd.AddCommand(exportCmd)
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show players ranked by Elo rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, teardown, err := openDB()
		if err != nil {
			return err
		}
		defer teardown()

		board, err := players.New(db).GetLeaderboard()
		if err != nil {
			return err
		}

		for i, p := range board {
			fmt.Printf("%3d. %-24s %4d  %s  (%d-%d)\n",
				i+1, p.Name, p.Stats.Elo, elo.Description(p.Stats.Elo),
				p.Stats.MatchesWon, p.Stats.MatchesLost)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <player-id>",
	Short: "Show match statistics for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, teardown, err := openDB()
		if err != nil {
			return err
		}
		defer teardown()

		playerID := args[0]
		p, err := players.New(db).GetPlayer(playerID)
		if err != nil {
			return err
		}

		history, err := match.New(db, metrics.NewService()).GetMatchesForPlayer(playerID)
		if err != nil {
			return err
		}
		stats := match.CalculateStatistics(history, playerID)

		fmt.Printf("%s  %d Elo (%s)\n", p.Name, p.Stats.Elo, elo.Description(p.Stats.Elo))
		fmt.Printf("Record: %d-%d (%.1f%%), avg Elo change %+.1f\n",
			stats.Wins, stats.Losses, stats.WinRate, stats.AverageEloChange)
		fmt.Printf("Streak: %d %s (longest win %d, longest loss %d)\n",
			stats.CurrentStreak, stats.StreakType, stats.LongestWinStreak, stats.LongestLossStreak)
		fmt.Printf("Recent form: %s\n", strings.Join(stats.RecentForm, " "))
		for surface, s := range stats.BySurface {
			if s.Wins == 0 && s.Losses == 0 {
				continue
			}
			fmt.Printf("  %-7s %d-%d (%.1f%%)\n", surface, s.Wins, s.Losses, s.WinRate)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <player-id>",
	Short: "Find compatible partners for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, teardown, err := openDB()
		if err != nil {
			return err
		}
		defer teardown()

		store := players.New(db)
		current, err := store.GetPlayer(args[0])
		if err != nil {
			return err
		}
		all, err := store.GetAllPlayers()
		if err != nil {
			return err
		}

		filters := search.Filters{
			Query:       searchQuery,
			MaxDistance: searchMaxDistance,
		}
		if searchMinElo > 0 {
			filters.MinElo = &searchMinElo
		}
		if searchMaxElo > 0 {
			filters.MaxElo = &searchMaxElo
		}

		engine := search.NewEngine(metrics.NewService())
		results := engine.SearchPlayers(current, all, filters, search.DefaultWeights)
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}

		for _, r := range results {
			fmt.Printf("%3d%%  %-24s %4d Elo  %.1f mi\n",
				r.MatchScore, r.Player.Name, r.Player.Stats.Elo, r.Distance)
		}
		return nil
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Work with player availability",
}

var commonCmd = &cobra.Command{
	Use:   "common <player1-id> <player2-id>",
	Short: "Find time slots where two players are both available",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if commonFrom == "" || commonTo == "" {
			return fmt.Errorf("--from and --to are required")
		}

		db, teardown, err := openDB()
		if err != nil {
			return err
		}
		defer teardown()

		mgr := availability.NewManager(availability.New(db), metrics.NewService())
		common, err := mgr.FindCommonAvailability(args[0], args[1], commonFrom, commonTo, commonMinDuration)
		if err != nil {
			return err
		}

		if len(common.MatchingSlots) == 0 {
			fmt.Println("No matching slots found.")
			return nil
		}
		for _, slot := range common.MatchingSlots {
			fmt.Printf("%s  %s-%s  (%d min)\n", slot.Date, slot.StartTime, slot.EndTime, slot.Duration)
		}
		return nil
	},
}

var courtsCmd = &cobra.Command{
	Use:   "courts",
	Short: "Work with tennis courts",
}

var courtsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search courts by surface, rating, text and distance",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, teardown, err := openDB()
		if err != nil {
			return err
		}
		defer teardown()

		filters := court.Filters{
			SearchTerm:  courtTerm,
			MaxDistance: courtMaxDistance,
		}
		if courtSurface != "" {
			filters.Surfaces = []players.Surface{players.Surface(courtSurface)}
		}
		if cmd.Flags().Changed("indoor") {
			filters.IsIndoor = &courtIndoor
		}
		if courtMinRating > 0 {
			filters.MinRating = &courtMinRating
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			filters.UserLocation = &court.LatLon{Latitude: courtLat, Longitude: courtLon}
		}

		mgr := court.NewManager(court.New(db), metrics.NewService())
		results, err := mgr.SearchCourts(filters)
		if err != nil {
			return err
		}

		for _, r := range results {
			line := fmt.Sprintf("%-28s %-7s %.1f★", r.Court.Name, r.Court.Surface, r.Court.Rating.AverageRating)
			if r.Distance != nil {
				line += fmt.Sprintf("  %.1f km", *r.Distance)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full dataset to a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, teardown, err := openDB()
		if err != nil {
			return err
		}
		defer teardown()

		m := metrics.NewService()
		backup, err := export.FromStores(players.New(db), match.New(db, m), court.New(db))
		if err != nil {
			return err
		}

		switch exportFormat {
		case "json":
			raw, err := export.ToJSON(backup)
			if err != nil {
				return err
			}
			return writeFile(exportOut+".json", raw)
		case "snapshot":
			raw, err := export.Encode(backup)
			if err != nil {
				return err
			}
			return writeFile(exportOut+".msgpack", raw)
		case "csv":
			playersCSV, err := export.PlayersToCSV(backup.Players)
			if err != nil {
				return err
			}
			matchesCSV, err := export.MatchesToCSV(backup.Matches)
			if err != nil {
				return err
			}
			courtsCSV, err := export.CourtsToCSV(backup.Courts)
			if err != nil {
				return err
			}
			if err := writeFile(exportOut+"-players.csv", []byte(playersCSV)); err != nil {
				return err
			}
			if err := writeFile(exportOut+"-matches.csv", []byte(matchesCSV)); err != nil {
				return err
			}
			return writeFile(exportOut+"-courts.csv", []byte(courtsCSV))
		default:
			return fmt.Errorf("unknown format %q, want json, snapshot or csv", exportFormat)
		}
	},
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
	return nil
}
