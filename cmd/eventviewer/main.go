package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/crisislens/gdacs-viewer/internal/catalog"
	"github.com/crisislens/gdacs-viewer/internal/config"
	"github.com/crisislens/gdacs-viewer/internal/feed"
	"github.com/crisislens/gdacs-viewer/internal/geocode"
	"github.com/crisislens/gdacs-viewer/internal/logging"
	"github.com/crisislens/gdacs-viewer/internal/models"
	"github.com/crisislens/gdacs-viewer/internal/viewer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	client := feed.NewClient(cfg.Feed.URL, cfg.Feed.Timeout)
	cat := catalog.New(client, geocode.Resolver{})

	fmt.Println("Fetching GDACS events...")
	warnings := cat.Request(context.Background())
	for _, w := range warnings {
		slog.Warn("skipped feed item", "event_id", w.EventID, "field", w.Field, "error", w.Err)
	}

	in := bufio.NewReader(os.Stdin)

	cat = applyFilters(in, cat)
	if cat.Len() == 0 {
		fmt.Println("No events match the selected filters.")
		return
	}

	n := promptCount(in, cat.Len())
	if n < 1 {
		return
	}
	cat = cat.Slice(0, n)

	reverse := geocode.NewReverseClient(cfg.Geocode.NominatimURL, cfg.Geocode.Timeout)
	cat = refineOffshore(context.Background(), reverse, cat)

	printSummary(cat)

	if !promptYesNo(in, "Open the interactive viewer? [y/n]: ") {
		return
	}
	appearance := promptAppearance(in)

	nav, err := viewer.NewNav(cat)
	if err != nil {
		logging.Fatalf("Failed to start viewer: %v", err)
	}

	m := viewer.New(nav, appearance, openBrowser)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logging.Fatalf("Viewer error: %v", err)
	}
}

// applyFilters lets the user narrow the catalog by recency, category and
// alert level. Each filter can be applied at most once.
func applyFilters(in *bufio.Reader, cat *catalog.Catalog) *catalog.Catalog {
	remaining := []string{"date", "category", "alert"}

	for len(remaining) > 0 && cat.Len() > 0 {
		fmt.Printf("\n%d events available.\n", cat.Len())
		fmt.Printf("Filter by %s, or press enter to continue: ", strings.Join(remaining, ", "))

		choice := strings.ToLower(readLine(in))
		if choice == "" {
			break
		}

		idx := -1
		for i, name := range remaining {
			if name == choice {
				idx = i
				break
			}
		}
		if idx < 0 {
			fmt.Println("Unknown filter.")
			continue
		}

		pred, err := buildFilter(in, choice)
		if err != nil {
			fmt.Println(err)
			continue
		}

		cat = cat.Filter(pred)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return cat
}

func buildFilter(in *bufio.Reader, kind string) (catalog.Predicate, error) {
	switch kind {
	case "date":
		days := promptInt(in, "Show events from the past how many days? ")
		return catalog.RecencyFilter(days)
	case "category":
		fmt.Println("Categories:")
		for _, c := range models.Categories() {
			fmt.Printf("  %s - %s\n", c, c.Name())
		}
		fmt.Print("Category code: ")
		code := strings.ToUpper(readLine(in))
		category, err := models.ParseCategory(code)
		if err != nil {
			return nil, err
		}
		return catalog.CategoryFilter(category)
	case "alert":
		fmt.Print("Alert level (green, orange, red): ")
		return catalog.AlertFilter(readLine(in))
	}
	return nil, fmt.Errorf("unknown filter %q", kind)
}

// promptCount asks how many events to display. Anything below 1 exits.
func promptCount(in *bufio.Reader, available int) int {
	n := promptInt(in, fmt.Sprintf("How many events to display (1-%d, 0 to quit)? ", available))
	if n > available {
		n = available
	}
	return n
}

// promptInt re-prompts until it reads a non-negative integer.
func promptInt(in *bufio.Reader, prompt string) int {
	for {
		fmt.Print(prompt)
		v, err := strconv.Atoi(readLine(in))
		if err == nil && v >= 0 {
			return v
		}
		fmt.Println("Please enter a non-negative number.")
	}
}

func promptYesNo(in *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	return strings.HasPrefix(strings.ToLower(readLine(in)), "y")
}

func promptAppearance(in *bufio.Reader) viewer.Appearance {
	fmt.Print("Appearance, light or dark? [light/dark]: ")
	if strings.HasPrefix(strings.ToLower(readLine(in)), "d") {
		return viewer.AppearanceDark
	}
	return viewer.AppearanceLight
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// refineOffshore reverse-geocodes events the feed reported without a country.
// Open-ocean coordinates keep the off-shore sentinel; failures are logged and
// left as-is.
func refineOffshore(ctx context.Context, reverse *geocode.ReverseClient, cat *catalog.Catalog) *catalog.Catalog {
	events := cat.All()
	changed := false

	for i, e := range events {
		if e.ISO2 != models.UnknownISO2 || e.ID == 0 {
			continue
		}
		code, err := reverse.CountryCode(ctx, e.Latitude, e.Longitude)
		if err != nil {
			slog.Warn("reverse geocoding failed", "event_id", e.ID, "error", err)
			continue
		}
		if strings.EqualFold(code, models.UnknownISO2) {
			continue
		}
		events[i].ISO2 = strings.ToUpper(code)
		if name, err := geocode.CountryName(code); err == nil {
			events[i].Countries = []string{name}
		}
		changed = true
	}

	if !changed {
		return cat
	}
	return catalog.FromEvents(events)
}

// printSummary renders one panel per event, category colored by alert level.
func printSummary(cat *catalog.Catalog) {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	for _, e := range cat.All() {
		category := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(models.AlertColor(e.AlertLevel))).
			Render(e.Category.Name())

		body := fmt.Sprintf("%s  #%s\n%s\n%s - %s",
			category, e.FormattedID(), e.Title, e.DateString(), e.PrimaryCountry())
		fmt.Println(panel.Render(body))
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("failed to open browser", "url", url, "error", err)
	}
}
