package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/dxp-leaderboard/internal/logger"
)

const (
	DefaultURLTemplate = "https://www.runeclan.com/user/%s"
	DefaultFormField   = "dxp_col"
	DefaultFormValue   = "dxp"
	UserAgent          = "dxp-leaderboard/1.0 (github.com/pfrederiksen/dxp-leaderboard)"
	Timeout            = 30 * time.Second

	// XPSelector matches the tracker cell holding a positive gain.
	XPSelector = "td.xp_tracker_gain.xp_tracker_pos"

	// MissingXP is the raw value reported when no gain cell exists.
	MissingXP = "0"
)

// ErrUnexpectedStatus is wrapped by FetchXP when the tracker answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Lookup is the raw result of scraping one player.
type Lookup struct {
	Raw   string `json:"raw"`
	Found bool   `json:"found"`
}

// Options configures where and how players are fetched.
type Options struct {
	URLTemplate string
	FormField   string
	FormValue   string
	UserAgent   string
	Timeout     time.Duration
}

// DefaultOptions returns the options for the public runeclan tracker.
func DefaultOptions() Options {
	return Options{
		URLTemplate: DefaultURLTemplate,
		FormField:   DefaultFormField,
		FormValue:   DefaultFormValue,
		UserAgent:   UserAgent,
		Timeout:     Timeout,
	}
}

// Scraper fetches per-player xp gains.
type Scraper struct {
	client *http.Client
	opts   Options
}

// New creates a Scraper. Zero fields in opts fall back to DefaultOptions.
func New(opts Options) *Scraper {
	def := DefaultOptions()
	if opts.URLTemplate == "" {
		opts.URLTemplate = def.URLTemplate
	}
	if opts.FormField == "" {
		opts.FormField = def.FormField
	}
	if opts.FormValue == "" {
		opts.FormValue = def.FormValue
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}

	return &Scraper{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		opts: opts,
	}
}

// PlayerURL returns the tracker URL for a player. Spaces become '+', as the
// tracker expects.
func (s *Scraper) PlayerURL(name string) string {
	sanitized := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "+"))
	return fmt.Sprintf(s.opts.URLTemplate, sanitized)
}

// FetchXP posts the xp-column form to the player's page and extracts the gain.
func (s *Scraper) FetchXP(ctx context.Context, name string) (Lookup, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("scrape.fetch", time.Since(start)) }()
	logger.IncrCounter("scrape.requests")

	form := url.Values{}
	form.Set(s.opts.FormField, s.opts.FormValue)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.PlayerURL(name), strings.NewReader(form.Encode()))
	if err != nil {
		logger.IncrCounter("scrape.failures")
		return Lookup{}, fmt.Errorf("creating request for %s: %w", name, err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.IncrCounter("scrape.failures")
		return Lookup{}, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.IncrCounter("scrape.failures")
		return Lookup{}, fmt.Errorf("fetching %s: %w: %d", name, ErrUnexpectedStatus, resp.StatusCode)
	}

	lookup, err := parseXP(resp.Body)
	if err != nil {
		logger.IncrCounter("scrape.failures")
		return Lookup{}, fmt.Errorf("parsing page for %s: %w", name, err)
	}
	if !lookup.Found {
		logger.IncrCounter("scrape.misses")
	}

	logger.Debug("Fetched player", logger.Fields{
		"player": name,
		"raw":    lookup.Raw,
		"found":  lookup.Found,
	})
	return lookup, nil
}

// parseXP extracts the first positive gain cell from a tracker page.
func parseXP(r io.Reader) (Lookup, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Lookup{}, fmt.Errorf("parsing HTML: %w", err)
	}

	cell := doc.Find(XPSelector).First()
	if cell.Length() == 0 {
		return Lookup{Raw: MissingXP, Found: false}, nil
	}

	raw := strings.TrimSpace(cell.Text())
	if raw == "" {
		return Lookup{Raw: MissingXP, Found: false}, nil
	}
	return Lookup{Raw: raw, Found: true}, nil
}
