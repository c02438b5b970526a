// Command wrapped logs in to Spotify, builds the listening dataset and prints
// the song browser and the feature comparison to the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/ewilliams-labs/wrapped/internal/adapters/auth"
	"github.com/ewilliams-labs/wrapped/internal/adapters/spotify"
	"github.com/ewilliams-labs/wrapped/internal/adapters/sqlite"
	"github.com/ewilliams-labs/wrapped/internal/config"
	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
	"github.com/ewilliams-labs/wrapped/internal/core/services"
	"github.com/ewilliams-labs/wrapped/internal/worker"
)

var (
	white     = color.New(color.FgWhite)
	boldWhite = color.New(color.FgWhite, color.Bold)
	yellow    = color.New(color.FgYellow)
	red       = color.New(color.FgRed)
)

var (
	envF      string
	labelF    string
	limitF    int
	searchF   string
	featuresF string
	groupsF   string
	timeoutF  time.Duration
)

func main() {
	flag.StringVar(&envF, "env", ".env", "Environment file to load. Usage: -env /PATH/TO/.env")
	flag.StringVar(&labelF, "label", "", "Listening window to browse, e.g. \"Past year\". Defaults to the first window")
	flag.IntVar(&limitF, "limit", domain.DefaultBrowseLimit, "Number of songs to show")
	flag.StringVar(&searchF, "q", "", "Search songs by title or artist")
	flag.StringVar(&featuresF, "features", "", "Comma separated features to compare. Defaults to all")
	flag.StringVar(&groupsF, "groups", services.GroupsBoth, "Comparison groups: User, \"Global Top 50\" or both")
	flag.DurationVar(&timeoutF, "timeout", 5*time.Minute, "How long to wait for the login")

	flag.Usage = func() {
		fmt.Print("Usage: ")
		boldWhite.Println("wrapped [options]")
		fmt.Printf("\nOptions:\n")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("  -%s:	%s\n", f.Name, f.Usage)
		})
	}
	flag.Parse()

	if err := run(); err != nil {
		red.Println("Error:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	cfg, err := config.Load(envF)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	features, err := parseFeatures(featuresF)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Adapters
	repo, err := sqlite.NewAdapter(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	var estimator ports.FeatureEstimator
	if cfg.FeaturesFallback == config.FallbackPreview {
		pool := worker.NewPool(cfg.WorkerQueueSize)
		pool.Start(cfg.WorkerCount)
		defer pool.Stop()
		estimator = pool
	}

	plan := services.DefaultPlan()
	plan.TopTracksLimit = cfg.TopTracksLimit
	plan.PlaylistID = cfg.GlobalTopPlaylistID
	plan.PlaylistLimit = cfg.PlaylistLimit
	svc := services.NewOrchestrator(repo, estimator, plan)

	// 3. Login
	authenticator := auth.New(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		APIBaseURL:   cfg.APIBaseURL,
	})

	var login auth.Login
	if cfg.AccessToken != "" {
		login, err = authenticator.StaticLogin(ctx, cfg.AccessToken)
	} else {
		loginCtx, cancel := context.WithTimeout(ctx, timeoutF)
		login, err = awaitLogin(loginCtx, authenticator, cfg.RedirectURI)
		cancel()
	}
	if err != nil {
		return err
	}
	fmt.Print("You are logged in as: ")
	boldWhite.Println(login.User)

	// 4. Build the dataset
	fmt.Println("Fetching your top tracks and the Global Top 50...")
	session, err := svc.StartSession(ctx, login.User, spotify.NewClient(login.HTTPClient, cfg.APIBaseURL))
	if err != nil {
		return err
	}
	defer svc.EndSession(context.Background())

	// 5. Views
	rows, err := svc.Browse(ctx, domain.BrowseQuery{Label: labelF, Limit: limitF, Search: searchF})
	if err != nil {
		return err
	}
	label := labelF
	if label == "" && len(session.Labels) > 0 {
		label = session.Labels[0]
	}
	printBrowser(label, session.Labels, rows)

	comparison, err := svc.Compare(ctx, services.CompareQuery{Features: features, Groups: groupsF})
	if err != nil {
		return err
	}
	printComparison(comparison)

	return nil
}

func parseFeatures(raw string) ([]domain.Feature, error) {
	var out []domain.Feature
	for _, name := range strings.Split(raw, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := domain.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
