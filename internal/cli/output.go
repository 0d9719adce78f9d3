package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/guiyumin/animelink/internal/core/darki"
	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/resolver"
	"github.com/guiyumin/animelink/internal/core/site"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// descriptionWidth is the terminal cell budget of a listing synopsis
const descriptionWidth = 100

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printListing(w io.Writer, listing *site.Listing) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d result(s)", len(listing.Results))))
	fmt.Fprintln(w, mutedStyle.Render(listing.SourceURL))
	fmt.Fprintln(w)

	for i, e := range listing.Results {
		bold.Fprintf(w, "%2d. %s", i+1, e.Title)
		var tags []string
		for _, t := range []string{e.Version, e.Season, e.Year, e.Type} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			cyan.Fprintf(w, " [%s]", strings.Join(tags, " · "))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "    %s\n", e.URL)
		if e.Description != "" {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(runewidth.Truncate(e.Description, descriptionWidth, "…")))
		}
	}

	if listing.NextPage != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Next page: %s\n", listing.NextPage)
	}
}

func printEpisodes(w io.Writer, animeURL string, episodes []site.Episode) {
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d link(s)", len(episodes))))
	fmt.Fprintln(w, mutedStyle.Render(animeURL))
	fmt.Fprintln(w)

	for _, ep := range episodes {
		cyan.Fprintf(w, "Episode %-4s", ep.Episode)
		fmt.Fprintf(w, " %-10s %-6s %s\n", ep.Host, ep.Quality, ep.URL)
	}
}

func printGenres(w io.Writer, genres []site.Genre) {
	green := color.New(color.FgGreen)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d genre(s)", len(genres))))
	for _, g := range genres {
		green.Fprint(w, "  "+runewidth.FillRight(g.Name, 20))
		fmt.Fprintf(w, " %s\n", g.URL)
	}
}

func printResult(w io.Writer, res extractor.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	if !res.Success {
		red.Fprintf(w, "✗ %s", res.Error)
		if res.ErrorKind != "" {
			yellow.Fprintf(w, " (%s)", res.ErrorKind)
		}
		fmt.Fprintln(w)
		if res.Extractor != "" {
			fmt.Fprintf(w, "  Extractor: %s\n", res.Extractor)
		}
		if res.Debug != nil {
			if len(res.Debug.PatternsTried) > 0 {
				fmt.Fprintf(w, "  Patterns:  %s\n", strings.Join(res.Debug.PatternsTried, ", "))
			}
			if res.Debug.HTMLPreview != "" {
				fmt.Fprintf(w, "  Preview:   %s\n", mutedStyle.Render(res.Debug.HTMLPreview))
			}
		}
		return
	}

	green.Fprintln(w, "✓ "+res.URL)
	bold.Fprint(w, "  Extractor: ")
	fmt.Fprintln(w, res.Extractor)
	bold.Fprint(w, "  Method:    ")
	fmt.Fprintln(w, res.Method)

	if len(res.Headers) > 0 {
		bold.Fprintln(w, "  Headers:")
		keys := make([]string, 0, len(res.Headers))
		for k := range res.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "    %s: %s\n", k, res.Headers[k])
		}
	}
}

func printLink(w io.Writer, link *darki.Link) {
	bold := color.New(color.Bold)

	color.New(color.FgGreen).Fprintln(w, "✓ "+link.URL)
	if link.Quality != "" {
		bold.Fprint(w, "  Quality:   ")
		fmt.Fprintln(w, link.Quality)
	}
	if len(link.Languages) > 0 {
		bold.Fprint(w, "  Languages: ")
		fmt.Fprintln(w, strings.Join(link.Languages, ", "))
	}
	bold.Fprint(w, "  Referer:   ")
	fmt.Fprintln(w, link.Headers["Referer"])
}

func printDiagnostics(w io.Writer, diag resolver.Diagnostics) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Selector"))
	for _, c := range diag.Candidates {
		mark := " "
		if c.Name == diag.Selected {
			mark = "→"
		}
		matched := "no match"
		if c.Matched {
			matched = "match"
		}
		fmt.Fprintf(w, "  %s %-12s %s\n", mark, c.Name, mutedStyle.Render(matched))
	}
	if diag.HosterRule != "" {
		fmt.Fprintf(w, "  Hoster rule: %s", diag.HosterRule)
		if diag.Fallthrough {
			fmt.Fprint(w, " (used)")
		}
		fmt.Fprintln(w)
	}
}
