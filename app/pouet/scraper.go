package pouet

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/lysyi3m/prodwatch/app/prod"
)

const (
	votesSelector = "#pouetbox_prodmain .r2"
	titleSelector = "#title big"
)

// Scraper reads a prod from its HTML page instead of the JSON API. It only
// recovers the name and the three vote counters.
type Scraper struct {
	client *Client
}

func NewScraper(client *Client) *Scraper {
	return &Scraper{client: client}
}

func (s *Scraper) GetProd(ctx context.Context, id string) (*prod.Response, error) {
	pageURL := s.client.ProdURL(id)

	data, err := s.client.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prod page: %w", err)
	}

	numbers := parseVoteNumbers(doc.Find(votesSelector).First().Text())
	if len(numbers) != 3 {
		return nil, fmt.Errorf("received %d vote numbers for prod %s, expected 3", len(numbers), id)
	}

	title := strings.TrimSpace(doc.Find(titleSelector).First().Text())
	if title == "" {
		title = s.fallbackTitle(data, pageURL)
	}
	if title == "" {
		return nil, fmt.Errorf("no title found on prod page for prod %s", id)
	}

	slog.Debug("Prod scraped", "prod", id, "name", title, "votes", numbers)

	return &prod.Response{
		Success: true,
		Prod: prod.Prod{
			ID:       id,
			Name:     title,
			VoteUp:   numbers[0],
			VotePig:  numbers[1],
			VoteDown: numbers[2],
		},
	}, nil
}

func (s *Scraper) fallbackTitle(data []byte, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		slog.Debug("Readability could not extract a title", "url", pageURL, "error", err)
		return ""
	}

	return strings.TrimSpace(article.Title)
}

func parseVoteNumbers(text string) []prod.Count {
	var numbers []prod.Count
	for _, field := range strings.Fields(text) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			continue
		}
		numbers = append(numbers, prod.Count(n))
	}
	return numbers
}
