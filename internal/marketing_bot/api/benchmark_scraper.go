package api

import (
	"context"
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBenchmarkURL = "http://databox.com/ppc-industry-benchmarks"

type metric int

const (
	metricUnknown metric = iota
	metricCTR
	metricCPC
)

type tableSlot struct {
	platform models.Platform
	metric   metric
}

// positionalSlots is the table order used when the page carries no usable labels.
var positionalSlots = []tableSlot{
	{models.PlatformFacebook, metricCTR},
	{models.PlatformFacebook, metricCPC},
	{models.PlatformGoogle, metricCTR},
	{models.PlatformGoogle, metricCPC},
	{models.PlatformLinkedIn, metricCTR},
	{models.PlatformLinkedIn, metricCPC},
}

// BenchmarkScraper downloads the PPC benchmark page and turns its tables into entries.
type BenchmarkScraper struct {
	client *http.Client
	url    string
}

// NewBenchmarkScraper creates a scraper for url with the given request timeout.
func NewBenchmarkScraper(url string, timeout time.Duration) *BenchmarkScraper {
	if url == "" {
		url = DefaultBenchmarkURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BenchmarkScraper{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// FetchBenchmarks performs one GET and parses the page.
// On any failure it returns an empty, non-nil mapping together with the cause.
func (s *BenchmarkScraper) FetchBenchmarks(ctx context.Context) (models.Benchmarks, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return models.Benchmarks{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MarketingBot/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Benchmarks{}, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return models.Benchmarks{}, fmt.Errorf("%w: %s returned %d", ErrBadStatus, s.url, resp.StatusCode)
	}
	return ParseBenchmarks(resp.Body)
}

// ParseBenchmarks extracts the six CTR/CPC tables from the page.
// Tables are matched by their caption, id or enclosing headings first; when some
// of them can not be identified the first six tables are taken in page order.
func ParseBenchmarks(r io.Reader) (models.Benchmarks, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.Benchmarks{}, fmt.Errorf("failed to parse html: %w", err)
	}

	tables, labelled := locateTables(doc)
	if len(labelled) < len(positionalSlots) {
		if len(tables) < len(positionalSlots) {
			return models.Benchmarks{}, fmt.Errorf("%w: %d tables found", ErrUnexpectedLayout, len(tables))
		}
		logrus.WithField("labelled", len(labelled)).Warn("Benchmark tables not labelled, using page order")
		labelled = make(map[tableSlot]*goquery.Selection, len(positionalSlots))
		for i, slot := range positionalSlots {
			labelled[slot] = tables[i]
		}
	}

	result := make(models.Benchmarks, len(models.Platforms))
	for _, platform := range models.Platforms {
		ctr := tableRows(labelled[tableSlot{platform, metricCTR}])
		cpc := tableRows(labelled[tableSlot{platform, metricCPC}])
		result[platform] = MergeBenchmarkRows(ctr, cpc)
	}
	return result, nil
}

// MergeBenchmarkRows joins CTR and CPC rows by industry. CTR rows seed the entries,
// a CPC row fills the matching entry or is appended as a CPC-only entry.
func MergeBenchmarkRows(ctr, cpc [][2]string) []models.BenchmarkEntry {
	entries := make([]models.BenchmarkEntry, 0, len(ctr))
	index := make(map[string]int, len(ctr))
	for _, row := range ctr {
		if i, ok := index[row[0]]; ok {
			entries[i].CTR = row[1]
			continue
		}
		index[row[0]] = len(entries)
		entries = append(entries, models.BenchmarkEntry{Industry: row[0], CTR: row[1]})
	}
	for _, row := range cpc {
		if i, ok := index[row[0]]; ok {
			entries[i].CPC = row[1]
			continue
		}
		index[row[0]] = len(entries)
		entries = append(entries, models.BenchmarkEntry{Industry: row[0], CPC: row[1]})
	}
	return entries
}

// locateTables walks headings and tables in document order. It returns every
// table and the first table found for each labelled platform/metric slot.
func locateTables(doc *goquery.Document) ([]*goquery.Selection, map[tableSlot]*goquery.Selection) {
	var (
		tables   []*goquery.Selection
		labelled = make(map[tableSlot]*goquery.Selection)
		headings [6]string // текущий путь заголовков h1..h6
	)
	doc.Find("h1, h2, h3, h4, h5, h6, table").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		if tag != "table" {
			level := int(tag[1] - '1')
			headings[level] = strings.TrimSpace(sel.Text())
			for i := level + 1; i < len(headings); i++ {
				headings[i] = ""
			}
			return
		}
		tables = append(tables, sel)

		// innermost label first: caption, id, then headings from deepest to top
		labels := []string{sel.Find("caption").First().Text(), sel.AttrOr("id", "")}
		for i := len(headings) - 1; i >= 0; i-- {
			labels = append(labels, headings[i])
		}
		slot, ok := classify(labels)
		if !ok {
			return
		}
		if _, seen := labelled[slot]; !seen {
			labelled[slot] = sel
		}
	})
	return tables, labelled
}

func classify(labels []string) (tableSlot, bool) {
	var slot tableSlot
	for _, label := range labels {
		label = strings.ToLower(label)
		if label == "" {
			continue
		}
		if slot.platform == "" {
			slot.platform = platformOf(label)
		}
		if slot.metric == metricUnknown {
			slot.metric = metricOf(label)
		}
	}
	return slot, slot.platform != "" && slot.metric != metricUnknown
}

func platformOf(label string) models.Platform {
	switch {
	case strings.Contains(label, "facebook"):
		return models.PlatformFacebook
	case strings.Contains(label, "google"), strings.Contains(label, "adwords"):
		return models.PlatformGoogle
	case strings.Contains(label, "linkedin"):
		return models.PlatformLinkedIn
	}
	return ""
}

func metricOf(label string) metric {
	hasCTR := strings.Contains(label, "ctr") || strings.Contains(label, "click-through") || strings.Contains(label, "click through")
	hasCPC := strings.Contains(label, "cpc") || strings.Contains(label, "cost per click") || strings.Contains(label, "cost-per-click")
	switch {
	case hasCTR && !hasCPC:
		return metricCTR
	case hasCPC && !hasCTR:
		return metricCPC
	}
	return metricUnknown
}

// tableRows returns (industry, value) pairs of the table, skipping the header
// row and rows with fewer than two data cells.
func tableRows(table *goquery.Selection) [][2]string {
	if table == nil {
		return nil
	}
	var rows [][2]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		industry := strings.TrimSpace(cells.Eq(0).Text())
		if industry == "" {
			return
		}
		rows = append(rows, [2]string{industry, strings.TrimSpace(cells.Eq(1).Text())})
	})
	return rows
}
