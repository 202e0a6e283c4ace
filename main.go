// Minichess plays chess in the terminal against another player or the engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/console"
	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/storage"
)

var (
	mode       = flag.String("mode", "", "players: hh, hc, ch or cc (white then black; h=human, c=computer)")
	depth      = flag.Int("depth", 0, "engine search depth in half-moves (env CHESS_DEPTH)")
	boardFile  = flag.String("board", "", "board setup file (default: standard start)")
	dbDir      = flag.String("db", "", "game archive directory (env CHESS_DB)")
	parallel   = flag.Bool("parallel", false, "search root moves in parallel")
	resume     = flag.String("resume", "", "continue an archived game by id")
	maxPlies   = flag.Int("max-plies", 400, "stop computer-only games after this many half-moves")
	verbose    = flag.Bool("v", false, "print search progress")
	stats      = flag.Bool("stats", false, "print archive statistics and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store := openStorage()
	if store != nil {
		defer store.Close()
	}

	if *stats {
		printStats(store)
		return
	}

	settings := storage.DefaultSettings()
	if store != nil {
		if s, err := store.LoadSettings(); err == nil {
			settings = s
		} else {
			log.Printf("Warning: could not load settings: %v", err)
		}
	}
	if err := applyFlags(settings); err != nil {
		log.Fatal(err)
	}

	gm := game.NewManager(store)
	g, err := startGame(gm, settings)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := console.New(os.Stdin, os.Stdout, gm, g)
	c.Verbose = *verbose
	if settings.White == storage.Computer && settings.Black == storage.Computer {
		c.MaxPlies = *maxPlies
	}
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("console: %v", err)
	}

	if store != nil {
		settings.LastPlayed = time.Now()
		if err := store.SaveSettings(settings); err != nil {
			log.Printf("Warning: could not save settings: %v", err)
		}
		if !g.IsOver() && len(g.History()) > 0 {
			if err := gm.Save(g); err != nil {
				log.Printf("Warning: could not archive game: %v", err)
			} else {
				log.Printf("game %s archived; continue with -resume %s", g.ID, g.ID)
			}
		}
	}
}

// openStorage opens the archive. The game still runs without one.
func openStorage() *storage.Storage {
	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESS_DB")
	}

	var (
		store *storage.Storage
		err   error
	)
	if dir != "" {
		store, err = storage.Open(dir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: game archive disabled: %v", err)
		return nil
	}
	return store
}

// applyFlags overrides saved settings with the command line.
func applyFlags(s *storage.Settings) error {
	if *mode != "" {
		if len(*mode) != 2 {
			return fmt.Errorf("invalid -mode %q: want hh, hc, ch or cc", *mode)
		}
		white, ok1 := game.ParseController((*mode)[:1])
		black, ok2 := game.ParseController((*mode)[1:])
		if !ok1 || !ok2 {
			return fmt.Errorf("invalid -mode %q: want hh, hc, ch or cc", *mode)
		}
		s.White, s.Black = white, black
	}

	d := *depth
	if d == 0 {
		if env := os.Getenv("CHESS_DEPTH"); env != "" {
			v, err := strconv.Atoi(env)
			if err != nil {
				return fmt.Errorf("invalid CHESS_DEPTH %q: %w", env, err)
			}
			d = v
		}
	}
	if d < 0 {
		return fmt.Errorf("invalid depth %d", d)
	}
	if d > 0 {
		s.Depth = d
	}
	if *parallel {
		s.Parallel = true
	}
	return nil
}

func startGame(gm *game.Manager, s *storage.Settings) (*game.Game, error) {
	if *resume != "" {
		g, err := gm.GetGame(*resume)
		if err != nil {
			return nil, err
		}
		log.Printf("resuming game %s after %d half-moves", g.ID, len(g.History()))
		return g, nil
	}

	opts := game.Options{
		White:    s.White,
		Black:    s.Black,
		Depth:    s.Depth,
		Parallel: s.Parallel,
	}
	if *boardFile != "" {
		pos, err := board.LoadBoardFile(*boardFile)
		if err != nil {
			return nil, err
		}
		opts.Setup = pos.SetupString()
	}
	return gm.CreateGame(opts)
}

func printStats(store *storage.Storage) {
	if store == nil {
		fmt.Println("No game archive available.")
		return
	}
	st, err := store.LoadStats()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Games played: %d\n", st.GamesPlayed)
	fmt.Printf("White wins:   %d\n", st.WhiteWins)
	fmt.Printf("Black wins:   %d\n", st.BlackWins)
	fmt.Printf("Resignations: %d\n", st.Resigned)
	fmt.Printf("Half-moves:   %d\n", st.TotalPlies)
	fmt.Printf("Time played:  %s\n", st.TotalTime.Round(time.Second))
	fmt.Printf("White score:  %.1f%%\n", st.WhiteScore())

	summaries, err := store.ListGames()
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range summaries {
		fmt.Printf("%s  %-10s %3d plies  %s\n", s.ID, s.Status, s.Moves, s.UpdatedAt.Format(time.DateTime))
	}
}
