package pouet

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/prodwatch/app/prod"
)

// voteNamespace is the prefix pouet.net uses for its item extensions.
const voteNamespace = "pouet"

// GetComments fetches the prod's latest comments, newest first, in the
// order the feed delivers them.
func (c *Client) GetComments(ctx context.Context, id string) ([]prod.Comment, error) {
	data, err := c.fetch(ctx, c.commentsURL(id))
	if err != nil {
		return nil, err
	}

	comments, err := c.parser.Run(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("Comments fetched", "prod", id, "count", len(comments))
	return comments, nil
}

type CommentParser struct {
	gofeedParser *gofeed.Parser
}

func NewCommentParser() *CommentParser {
	return &CommentParser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *CommentParser) Run(data []byte) ([]prod.Comment, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	comments := make([]prod.Comment, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		comments = append(comments, p.normalizeItem(item))
	}

	return comments, nil
}

func (p *CommentParser) normalizeItem(item *gofeed.Item) prod.Comment {
	return prod.Comment{
		Link:  cmp.Or(item.Link, item.GUID),
		Title: cleanText(item.Title),
		Vote:  strings.ToLower(strings.TrimSpace(p.extractVote(item.Extensions))),
		Body:  htmlToText(cmp.Or(item.Description, item.Content)),
	}
}

// extractVote reads the vote extension element, preferring the pouet
// namespace, then other namespaces in name order.
func (p *CommentParser) extractVote(extensions ext.Extensions) string {
	if extensions == nil {
		return ""
	}

	if vote := firstValue(extensions[voteNamespace], "vote"); vote != "" {
		return vote
	}

	for _, namespace := range slices.Sorted(maps.Keys(extensions)) {
		if vote := firstValue(extensions[namespace], "vote"); vote != "" {
			return vote
		}
	}

	return ""
}

func firstValue(elements map[string][]ext.Extension, name string) string {
	for _, e := range elements[name] {
		if value := strings.TrimSpace(e.Value); value != "" {
			return value
		}
	}
	return ""
}

// htmlToText flattens a comment body to a single line of plain text.
func htmlToText(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanText(fragment)
	}
	doc.Find("br").ReplaceWithHtml(" ")

	return cleanText(doc.Text())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
