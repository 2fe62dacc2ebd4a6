package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ccowmu/minutes/internal/cache"
	"github.com/ccowmu/minutes/internal/config"
	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/logger"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/prefs"
	"github.com/ccowmu/minutes/internal/present"
	"github.com/ccowmu/minutes/internal/search"
	"github.com/ccowmu/minutes/internal/source"
	"github.com/ccowmu/minutes/internal/store"
	"github.com/ccowmu/minutes/internal/tui"
	"github.com/ccowmu/minutes/internal/watch"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"     // Version from git tag or "dev"
	commit    = "unknown" // Git commit hash (used in version output)
	buildTime = "unknown" // Build timestamp (used in version output)
)

// Platform constants for runtime.GOOS
const (
	platformDarwin  = "darwin"
	platformLinux   = "linux"
	platformWindows = "windows"
)

var (
	verbose     bool   // Flag to enable verbose logging
	autoGo      bool   // Flag to open the first result in the browser
	doSync      bool   // Flag to refresh the cache from the source
	watchSource bool   // Flag to reload the TUI when a local source changes
	asJSON      bool   // Flag to print results as JSON
	yearFlag    string // Year facet for direct search
	viewFlag    string // One-shot view mode override
)

var rootCmd = &cobra.Command{
	Use:   "minutes [flags] [query...]",
	Short: "Search club meeting minutes from the terminal",
	Long: `minutes searches the published meeting minutes of the club.
Every word of the query is matched as a prefix; a minutes entry is shown
when any word matches. Results can be narrowed to one year.

Getting Started:
  1. Run: minutes config (or create ~/.config/minutes/config.yaml)
  2. Run: minutes --sync (to fetch the minutes index)
  3. Run: minutes (interactive mode) or minutes <query> (direct search)

Examples:
  minutes                    # Interactive search
  minutes budget             # Direct search for "budget"
  minutes -y 2024 election   # Only minutes from 2024
  minutes --json pizza       # Machine-readable output
  minutes -g server upgrade  # Open the first result in the browser
  minutes --watch            # Reload when the local source changes
  minutes years              # List years with minutes counts

Configuration:
  Set the source in ~/.config/minutes/config.yaml or via environment:
    MINUTES_SOURCE_LOCATION=https://cclub.example.org/index.json
    MINUTES_SOURCE_KIND=json`,
	RunE: runSearch,
	// Accept any number of arguments as search query
	Args: cobra.ArbitraryArgs,
	// Don't suggest commands when args don't match subcommands
	SuggestionsMinimumDistance: 2,
}

// runSearch handles the default search behavior
func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	view, err := resolveView(cfg, viewFlag)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	if doSync {
		return performSync(ctx, cfg, false)
	}

	// Join all args to support multi-word queries: "minutes budget vote"
	query := strings.TrimSpace(strings.Join(args, " "))

	if autoGo {
		if query == "" {
			return fmt.Errorf("-g/--go requires a search query")
		}
		return runAutoGo(ctx, cmd.OutOrStdout(), cfg, query)
	}

	if query == "" && !asJSON {
		return runInteractive(ctx, cfg, viewFlag)
	}

	st, idx, err := loadIndex(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := idx.Close(); err != nil {
			logger.Debug("Failed to close index: %v", err)
		}
	}()

	return runDirect(cmd.OutOrStdout(), st, idx, yearFlag, query, view, asJSON)
}

// commandContext returns the command's context, or Background for a bare command
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveView validates the --view flag, falling back to the configured default
func resolveView(cfg *config.Config, flag string) (model.ViewMode, error) {
	if flag == "" {
		return cfg.DefaultView(), nil
	}
	mode, ok := model.ParseViewMode(flag)
	if !ok {
		return "", fmt.Errorf("invalid --view %q: must be card or list", flag)
	}
	return mode, nil
}

// loadDocuments reads the configured source through the cache
func loadDocuments(ctx context.Context, cfg *config.Config, refresh bool) ([]model.RawDocument, error) {
	src, err := source.New(cfg.SourceOptions())
	if err != nil {
		return nil, fmt.Errorf("source error: %w", err)
	}

	raws, err := source.WithCache(src, cache.New(cfg.Cache.Dir), refresh).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read minutes from %s: %w", src.Location(), err)
	}
	return raws, nil
}

// loadIndex loads the documents and builds the store and text index
func loadIndex(ctx context.Context, cfg *config.Config, refresh bool) (*store.Store, index.Searcher, error) {
	raws, err := loadDocuments(ctx, cfg, refresh)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	st, idx, err := search.Prepare(raws, cfg.Backend())
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Indexed %d minutes with %s backend in %v", st.Len(), idx.Kind(), time.Since(start))

	return st, idx, nil
}

// jsonResult is one minutes entry in --json output
type jsonResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date,omitempty"`
	Year    string `json:"year,omitempty"`
	URL     string `json:"url,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// jsonOutput is the --json document
type jsonOutput struct {
	Query   string       `json:"query"`
	Year    string       `json:"year"`
	Count   int          `json:"count"`
	Total   int          `json:"total"`
	Results []jsonResult `json:"results"`
}

// newDirectAdapter filters st for one direct search
func newDirectAdapter(st *store.Store, idx index.Searcher, year, query string, view model.ViewMode, mark func(string) string) *present.Adapter {
	a := present.NewAdapter(nil, present.NewPage(), nil, present.Options{DefaultView: view, Mark: mark})
	a.RestorePreferences()
	a.Load(st, idx)
	a.SetFacet(year)
	a.SetQuery(query)
	return a
}

// runDirect prints the minutes matching query (and year) to w
func runDirect(w io.Writer, st *store.Store, idx index.Searcher, year, query string, view model.ViewMode, jsonMode bool) error {
	if year != "" && !search.IsFacetAll(year) && st.FacetBitmap(year).IsEmpty() {
		logger.Warn("No minutes from year %s", year)
	}

	if jsonMode {
		a := newDirectAdapter(st, idx, year, query, view, nil)
		return outputJSON(w, buildJSONOutput(a))
	}

	a := newDirectAdapter(st, idx, year, query, view, func(s string) string {
		return highlightStyle.Render(s)
	})
	printResults(w, a)
	return nil
}

// buildJSONOutput converts the visible cards to the --json document
func buildJSONOutput(a *present.Adapter) jsonOutput {
	state := a.State()
	visible := a.Visible()

	out := jsonOutput{
		Query:   state.SearchText,
		Year:    state.Facet,
		Count:   visible.Len(),
		Total:   visible.Total,
		Results: make([]jsonResult, 0, visible.Len()),
	}
	for _, card := range a.Page().VisibleCards() {
		out.Results = append(out.Results, jsonResult{
			ID:      string(card.ID),
			Title:   card.Title.Pristine(),
			Date:    card.Date,
			Year:    card.Year,
			URL:     card.URL,
			Excerpt: card.Excerpt.Pristine(),
		})
	}
	return out
}

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResults renders the visible cards in the adapter's view mode
func printResults(w io.Writer, a *present.Adapter) {
	visible := a.Visible()
	if visible.Empty() {
		fmt.Fprintln(w, mutedStyle.Render("No minutes match your search."))
		return
	}

	list := a.State().ViewMode == model.ViewList
	for _, card := range a.Page().VisibleCards() {
		if list {
			fmt.Fprintf(w, "%s  %s  %s\n", dateStyle.Render(fmt.Sprintf("%-10s", card.Date)), card.Title.Text(), urlStyle.Render(card.URL))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("▌"), card.Title.Text())
		fmt.Fprintf(w, "  %s  %s\n", dateStyle.Render(card.Date), urlStyle.Render(card.URL))
		if excerpt := card.Excerpt.Text(); excerpt != "" {
			fmt.Fprintf(w, "  %s\n", excerpt)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Showing %d of %d results", visible.Len(), visible.Total)))
}

// runAutoGo opens the first result in the browser and prints its URL
func runAutoGo(ctx context.Context, w io.Writer, cfg *config.Config, query string) error {
	st, idx, err := loadIndex(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	a := newDirectAdapter(st, idx, yearFlag, query, cfg.DefaultView(), nil)
	cards := a.Page().VisibleCards()
	if len(cards) == 0 {
		return fmt.Errorf("no minutes found for query: %s", query)
	}

	target := cards[0].URL
	if target == "" {
		return fmt.Errorf("minutes %s have no link", cards[0].ID)
	}

	logger.Debug("Opening browser with URL: %s", target)
	if err := openBrowser(target); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", err)
		logger.Debug("Browser open error: %v", err)
	}

	fmt.Fprintln(w, target)
	return nil
}

// openBrowser opens the given URL in the default browser (cross-platform)
func openBrowser(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case platformDarwin:
		cmd = exec.CommandContext(ctx, "open", url)
	case platformLinux:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case platformWindows:
		// Empty string before URL is important: start interprets first quoted arg as window title
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Run()
}

// viewOverride reports a fixed view mode on read and persists writes normally
type viewOverride struct {
	present.PreferenceStore
	view string
}

// Get returns the override for the view key
func (v viewOverride) Get(key string) (string, error) {
	if key == present.ViewPreferenceKey && v.view != "" {
		return v.view, nil
	}
	if v.PreferenceStore == nil {
		return "", nil
	}
	return v.PreferenceStore.Get(key)
}

// Set writes through to the underlying store
func (v viewOverride) Set(key, value string) error {
	if v.PreferenceStore == nil {
		return nil
	}
	return v.PreferenceStore.Set(key, value)
}

// openPreferences opens the bbolt preference file, falling back to memory
func openPreferences(dir string) (present.PreferenceStore, func()) {
	ps, err := prefs.Open(dir)
	if err != nil {
		logger.Warn("Preferences unavailable, view choice won't be remembered: %v", err)
		return present.NewMemoryPreferences(), func() {}
	}
	return ps, func() {
		if err := ps.Close(); err != nil {
			logger.Debug("Failed to close preferences: %v", err)
		}
	}
}

// newLoader returns the TUI load callback. The first call honours the cache;
// reloads refetch remote sources.
func newLoader(ctx context.Context, cfg *config.Config) func() tea.Cmd {
	refresh := false
	return func() tea.Cmd {
		force := refresh
		refresh = true
		return func() tea.Msg {
			st, idx, err := loadIndex(ctx, cfg, force)
			return tui.DocumentsLoadedMsg{Store: st, Index: idx, Err: err}
		}
	}
}

// runInteractive launches the interactive TUI with optional initial query
func runInteractive(ctx context.Context, cfg *config.Config, view string) error {
	prefStore, closePrefs := openPreferences(cfg.Cache.Dir)
	defer closePrefs()

	adapter := present.NewAdapter(nil, present.NewPage(), viewOverride{PreferenceStore: prefStore, view: view}, present.Options{
		DefaultView: cfg.DefaultView(),
		Mark:        tui.HighlightMark(),
	})
	adapter.RestorePreferences()
	adapter.SetFacet(yearFlag)
	defer func() {
		if err := adapter.Close(); err != nil {
			logger.Debug("Failed to close index: %v", err)
		}
	}()

	var changes <-chan struct{}
	if watchSource {
		if cfg.Source.Remote() {
			logger.Warn("--watch only follows local sources, ignoring for %s", cfg.Source.Location)
		} else {
			w, err := watch.New(ctx, cfg.Source.Location, watch.DefaultDebounce)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", cfg.Source.Location, err)
			}
			defer func() { _ = w.Close() }()
			changes = w.C
			logger.Debug("Watching %s for changes", cfg.Source.Location)
		}
	}

	m := tui.New(adapter, "", newLoader(ctx, cfg), changes, cfg.Source.Location, version)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if final, ok := finalModel.(tui.Model); ok {
		if selected := final.Selected(); selected != "" {
			logger.Debug("Opening browser with URL: %s", selected)
			if err := openBrowser(selected); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", err)
				logger.Debug("Browser open error: %v", err)
			}
			// Output URL to stdout (for copying or script usage)
			fmt.Println(selected)
		}
	}

	return nil
}

// performSync refreshes the cache from the source and validates the result.
// silent=true suppresses Info/Success messages.
func performSync(ctx context.Context, cfg *config.Config, silent bool) error {
	logInfo := logger.Info
	logSuccess := logger.Success
	if silent {
		logInfo = logger.Debug
		logSuccess = logger.Debug
	}

	if cfg.Source.Remote() {
		logInfo("Fetching minutes from %s (timeout: %ds)...", cfg.Source.Location, cfg.Source.Timeout)
	} else {
		logInfo("Reading minutes from %s...", cfg.Source.Location)
	}

	start := time.Now()
	st, idx, err := loadIndex(ctx, cfg, true)
	if err != nil {
		logger.Error("Sync failed")
		return err
	}
	defer func() { _ = idx.Close() }()

	logSuccess("Loaded %d minutes in %v", st.Len(), time.Since(start).Round(time.Millisecond))
	if st.Len() == 0 {
		logger.Warn("The source has no minutes. Check source.location and source.kind.")
		return nil
	}

	years := st.Years()
	if len(years) > 0 {
		logInfo("  Years: %s to %s", years[len(years)-1].Year, years[0].Year)
	}

	if !silent {
		logInfo("\nRun 'minutes' to search interactively")
	}
	return nil
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&autoGo, "go", "g", false, "open the first result in the browser")
	rootCmd.PersistentFlags().BoolVarP(&doSync, "sync", "s", false, "refresh the minutes cache from the source")
	rootCmd.PersistentFlags().BoolVarP(&watchSource, "watch", "w", false, "reload when a local source changes (interactive mode)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVarP(&yearFlag, "year", "y", "", "only show minutes from this year")
	rootCmd.PersistentFlags().StringVar(&viewFlag, "view", "", "view mode for this run: card or list")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		logger.Debug("Verbose mode enabled")
	}
}

func main() {
	// Enable interspersed flags (flags can appear anywhere in the command line)
	rootCmd.Flags().SetInterspersed(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
