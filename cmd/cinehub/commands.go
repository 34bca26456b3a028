package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"cinehub/internal/client"
	"cinehub/internal/config"
	"cinehub/internal/domain"
	"cinehub/internal/observability"
	"cinehub/internal/service"
	"cinehub/internal/tmdb"
)

var errFeatureDisabled = fmt.Errorf("this feature is disabled")

type app struct {
	cfg     *config.Config
	api     *client.Client
	meta    *tmdb.Client
	auth    *service.AuthService
	catalog *service.CatalogService
	nav     *pageTracker
}

func (a *app) usage() {
	fmt.Print(`Usage: cinehub <command> [arguments]

Discover:
  trending|popular|top-rated|now-playing|upcoming [-page N]
  search <term>            search movies by title
  details <movie-id>       full details, cast and trailers
  genres                   list genres
  history                  recent search terms
  clear-history
  prefs [-language L] [-region R] [-theme T]

Account:
  register -username U -email E -password P -confirm P [-first F] [-last L]
  login -email E -password P
  logout
  whoami
  profile [-first F] [-last L] [-bio B]
  passwd -current P -new P

Library:
  watchlist                list your watchlist
  watch <movie-id>         toggle watchlist membership
  watched <movie-id>       mark a watchlist entry watched
  rate <movie-id> <score>  rate 1-10
  review <movie-id> -title T -content C
  reviews <movie-id>       list reviews for a movie
  like <review-id> [-dislike]

Ops:
  monitor                  serve health and metrics until interrupted
  queue                    show requests parked for offline replay
`)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	ctx = observability.WithCommand(ctx, command)
	if session := a.auth.CurrentSession(); session != nil {
		ctx = observability.WithUserID(ctx, session.ID)
	}
	observability.FromContext(ctx).Debug("running command")
	a.auth.TrackActivity()

	switch command {
	case "trending":
		return a.listPage(ctx, args, a.catalog.Trending)
	case "popular":
		return a.listPage(ctx, args, a.catalog.Popular)
	case "top-rated":
		return a.listPage(ctx, args, a.catalog.TopRated)
	case "now-playing":
		return a.listPage(ctx, args, a.catalog.NowPlaying)
	case "upcoming":
		return a.listPage(ctx, args, a.catalog.Upcoming)
	case "search":
		return a.search(ctx, args)
	case "details":
		return a.details(ctx, args)
	case "genres":
		return a.genres(ctx)
	case "history":
		for _, term := range a.catalog.SearchHistory() {
			fmt.Println(term)
		}
		return nil
	case "clear-history":
		return a.catalog.ClearSearchHistory()
	case "prefs":
		return a.prefs(args)
	case "register", "login", "logout", "whoami", "profile", "passwd":
		if !a.cfg.Features.UserAuthentication {
			return errFeatureDisabled
		}
		switch command {
		case "register":
			return a.register(ctx, args)
		case "login":
			return a.login(ctx, args)
		case "logout":
			a.auth.Logout()
			return nil
		case "whoami":
			return a.whoami()
		case "profile":
			return a.profile(ctx, args)
		default:
			return a.passwd(ctx, args)
		}
	case "watchlist", "watch", "watched":
		if !a.cfg.Features.Watchlist {
			return errFeatureDisabled
		}
		switch command {
		case "watchlist":
			return a.watchlist(ctx)
		case "watch":
			return a.toggleWatch(ctx, args)
		default:
			return a.markWatched(ctx, args)
		}
	case "rate":
		if !a.cfg.Features.MovieRatings {
			return errFeatureDisabled
		}
		return a.rate(ctx, args)
	case "review", "reviews":
		if !a.cfg.Features.MovieReviews {
			return errFeatureDisabled
		}
		if command == "review" {
			return a.review(ctx, args)
		}
		return a.reviews(ctx, args)
	case "like":
		if !a.cfg.Features.SocialFeatures {
			return errFeatureDisabled
		}
		return a.like(ctx, args)
	case "queue":
		for _, req := range a.api.QueuedRequests() {
			fmt.Printf("%-6s %s\n", req.Method, req.URL)
		}
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func pageFlag(args []string, name string) (int, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	page := fs.Int("page", 1, "result page")
	if err := fs.Parse(args); err != nil {
		return 0, nil, err
	}
	return *page, fs.Args(), nil
}

func (a *app) listPage(ctx context.Context, args []string, fetch func(context.Context, int) (*domain.MoviePage, error)) error {
	page, _, err := pageFlag(args, "list")
	if err != nil {
		return err
	}
	result, err := fetch(ctx, page)
	if err != nil {
		return err
	}
	a.printMovies(result)
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	page, rest, err := pageFlag(args, "search")
	if err != nil {
		return err
	}
	result, err := a.catalog.Search(ctx, strings.Join(rest, " "), page)
	if err != nil {
		return err
	}
	a.printMovies(result)
	return nil
}

func (a *app) details(ctx context.Context, args []string) error {
	id, err := movieID(args)
	if err != nil {
		return err
	}
	d, err := a.catalog.Details(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)  %.1f/10\n", d.Title, year(d.ReleaseDate), d.VoteAverage)
	if d.Tagline != "" {
		fmt.Printf("  %s\n", d.Tagline)
	}
	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		fmt.Printf("  Genres: %s\n", strings.Join(names, ", "))
	}
	if d.Runtime > 0 {
		fmt.Printf("  Runtime: %dm\n", d.Runtime)
	}
	if d.Overview != "" {
		fmt.Printf("\n%s\n", d.Overview)
	}
	if d.PosterPath != "" {
		fmt.Printf("\nPoster: %s\n", a.meta.PosterURL(d.PosterPath))
	}
	if d.Credits != nil && len(d.Credits.Cast) > 0 {
		fmt.Println("\nCast:")
		for i, member := range d.Credits.Cast {
			if i == 8 {
				break
			}
			fmt.Printf("  %s as %s\n", member.Name, member.Character)
		}
	}
	if d.Videos != nil {
		for _, v := range d.Videos.Results {
			if v.Type == "Trailer" && v.Site == "YouTube" {
				fmt.Printf("\nTrailer: https://www.youtube.com/watch?v=%s\n", v.Key)
				break
			}
		}
	}
	return nil
}

func (a *app) genres(ctx context.Context) error {
	list, err := a.catalog.Genres(ctx)
	if err != nil {
		return err
	}
	for _, g := range list.Genres {
		fmt.Printf("%5d  %s\n", g.ID, g.Name)
	}
	return nil
}

func (a *app) prefs(args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	var update domain.Preferences
	fs.StringVar(&update.Language, "language", "", "preferred language, e.g. en-US")
	fs.StringVar(&update.Region, "region", "", "preferred region, e.g. US")
	fs.StringVar(&update.Theme, "theme", "", "ui theme")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if update == (domain.Preferences{}) {
		prefs := a.catalog.Preferences()
		fmt.Printf("language: %s\nregion:   %s\ntheme:    %s\n",
			orDefault(prefs.Language, a.cfg.Language),
			orDefault(prefs.Region, a.cfg.Region),
			orDefault(prefs.Theme, "default"))
		return nil
	}
	return a.catalog.SavePreferences(update)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var in service.RegisterInput
	fs.StringVar(&in.Username, "username", "", "username")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, err := a.auth.Register(ctx, in)
	return err
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, err := a.auth.Login(ctx, *email, *password)
	return err
}

func (a *app) whoami() error {
	session := a.auth.CurrentSession()
	if session == nil {
		return domain.ErrNotLoggedIn
	}
	fmt.Printf("%s <%s>\n", session.Username, session.Email)
	fmt.Printf("  logged in %s\n", session.LoginTime.Format("2006-01-02 15:04"))
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	a.nav.Navigate("profile")
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var update domain.ProfileUpdate
	fs.StringVar(&update.FirstName, "first", "", "first name")
	fs.StringVar(&update.LastName, "last", "", "last name")
	fs.StringVar(&update.Bio, "bio", "", "bio")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, err := a.auth.UpdateProfile(ctx, update)
	return err
}

func (a *app) passwd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.auth.ChangePassword(ctx, *current, *next)
}

func (a *app) watchlist(ctx context.Context) error {
	a.nav.Navigate("watchlist")
	entries, err := a.catalog.Watchlist(ctx, domain.ListOptions{})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Your watchlist is empty.")
		return nil
	}
	for _, entry := range entries {
		mark := " "
		if entry.Watched {
			mark = "x"
		}
		fmt.Printf("[%s] %d  added %s\n", mark, entry.MovieID, entry.AddedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) toggleWatch(ctx context.Context, args []string) error {
	id, err := movieID(args)
	if err != nil {
		return err
	}
	_, err = a.catalog.ToggleWatchlist(ctx, id)
	return err
}

func (a *app) markWatched(ctx context.Context, args []string) error {
	id, err := movieID(args)
	if err != nil {
		return err
	}
	return a.catalog.MarkWatched(ctx, id)
}

func (a *app) rate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rate <movie-id> <score>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}
	score, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid score %q", args[1])
	}
	return a.catalog.RateMovie(ctx, id, score)
}

func (a *app) review(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: review <movie-id> -title T -content C")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	title := fs.String("title", "", "review title")
	content := fs.String("content", "", "review body")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	_, err = a.catalog.SubmitReview(ctx, id, *title, *content)
	return err
}

func (a *app) reviews(ctx context.Context, args []string) error {
	id, err := movieID(args)
	if err != nil {
		return err
	}
	list, err := a.catalog.MovieReviews(ctx, id, 1)
	if err != nil {
		return err
	}
	for _, review := range list {
		fmt.Printf("%s  (%s, %s)\n", review.Title, review.ID, review.CreatedAt.Format("2006-01-02"))
		fmt.Printf("  %s\n", review.Content)
	}
	return nil
}

func (a *app) like(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: like <review-id> [-dislike]")
	}
	fs := flag.NewFlagSet("like", flag.ContinueOnError)
	dislike := fs.Bool("dislike", false, "record a dislike instead")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	return a.catalog.LikeReview(ctx, args[0], !*dislike)
}

func (a *app) printMovies(page *domain.MoviePage) {
	for _, m := range page.Results {
		fmt.Printf("%8d  %-45s %s  %.1f\n", m.ID, truncate(m.Title, 45), year(m.ReleaseDate), m.VoteAverage)
	}
	if page.TotalPages > 1 {
		fmt.Printf("\npage %d of %d (%d results)\n", page.Page, page.TotalPages, page.TotalResults)
	}
}

func movieID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("a movie id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid movie id %q", args[0])
	}
	return id, nil
}

func year(releaseDate string) string {
	if len(releaseDate) >= 4 {
		return releaseDate[:4]
	}
	return "----"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
