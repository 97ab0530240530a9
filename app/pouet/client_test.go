package pouet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ext "github.com/mmcdole/gofeed/extensions"
)

const prodJSON = `{
  "success": true,
  "prod": {
    "id": "12345",
    "name": "Foo",
    "type": "demo",
    "voteup": "5",
    "votepig": "1",
    "votedown": "0",
    "voteavg": "0.83",
    "rank": "4521",
    "cdc": 0
  }
}`

const commentsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:pouet="https://www.pouet.net/">
  <channel>
    <title>pouet.net: last comments for Foo</title>
    <link>https://www.pouet.net/prod.php?which=12345</link>
    <description>latest comments</description>
    <item>
      <title>alice</title>
      <link>https://www.pouet.net/prod.php?which=12345#c3</link>
      <description><![CDATA[<p>really <b>great</b><br/>stuff</p>]]></description>
      <pouet:vote>Rulez</pouet:vote>
    </item>
    <item>
      <title>bob</title>
      <link>https://www.pouet.net/prod.php?which=12345#c2</link>
      <description>ok I guess</description>
      <pouet:vote>isok</pouet:vote>
    </item>
    <item>
      <title>carol</title>
      <link>https://www.pouet.net/prod.php?which=12345#c1</link>
      <description>no vote here</description>
    </item>
  </channel>
</rss>`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), Options{
		APIBaseURL:  server.URL,
		SiteBaseURL: server.URL,
		UserAgent:   "prodwatch-test/1.0",
	})
	return server, client
}

func TestGetProd(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("id")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(prodJSON))
	})

	resp, err := client.GetProd(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotPath != "/v1/prod/" {
		t.Errorf("Expected path '/v1/prod/', got: %s", gotPath)
	}
	if gotQuery != "12345" {
		t.Errorf("Expected id query '12345', got: %s", gotQuery)
	}
	if gotAgent != "prodwatch-test/1.0" {
		t.Errorf("Expected configured user agent, got: %s", gotAgent)
	}
	if resp.Prod.Name != "Foo" {
		t.Errorf("Expected name 'Foo', got: %s", resp.Prod.Name)
	}
	if resp.Prod.Votes().Total() != 6 {
		t.Errorf("Expected vote total 6, got: %d", resp.Prod.Votes().Total())
	}
}

func TestGetProdErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "oops"},
		{"not found", http.StatusNotFound, ""},
		{"malformed json", http.StatusOK, "{not json"},
		{"negative counter", http.StatusOK, `{"success":true,"prod":{"id":"1","name":"x","voteup":"-3"}}`},
		{"unsuccessful", http.StatusOK, `{"success":false,"prod":{"id":"1","name":"x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			if _, err := client.GetProd(context.Background(), "1"); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestGetProdCancelledContext(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prodJSON))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GetProd(ctx, "12345"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestGetComments(t *testing.T) {
	var gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/lastprodcomments.rss.php" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("prod")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(commentsRSS))
	})

	comments, err := client.GetComments(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotQuery != "12345" {
		t.Errorf("Expected prod query '12345', got: %s", gotQuery)
	}
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got: %d", len(comments))
	}

	first := comments[0]
	if first.Title != "alice" {
		t.Errorf("Expected newest comment first, got: %s", first.Title)
	}
	if first.Vote != "rulez" {
		t.Errorf("Expected vote 'rulez', got: %s", first.Vote)
	}
	if first.Body != "really great stuff" {
		t.Errorf("Expected flattened body 'really great stuff', got: %q", first.Body)
	}
	if first.Link != "https://www.pouet.net/prod.php?which=12345#c3" {
		t.Errorf("Unexpected link: %s", first.Link)
	}

	if comments[1].Vote != "isok" {
		t.Errorf("Expected vote 'isok', got: %s", comments[1].Vote)
	}
	if comments[2].Vote != "" {
		t.Errorf("Expected empty vote, got: %s", comments[2].Vote)
	}
	if comments[2].Title != "carol" {
		t.Errorf("Expected oldest comment last, got: %s", comments[2].Title)
	}
}

func TestGetCommentsInvalidFeed(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>This is not a feed</body></html>`))
	})

	if _, err := client.GetComments(context.Background(), "12345"); err == nil {
		t.Error("Expected error for invalid feed data")
	}
}

func TestProdURL(t *testing.T) {
	client := NewClient(nil, Options{SiteBaseURL: "https://www.pouet.net/"})

	got := client.ProdURL("12345")
	if got != "https://www.pouet.net/prod.php?which=12345" {
		t.Errorf("Unexpected prod URL: %s", got)
	}
}

func TestDefaultBaseURLs(t *testing.T) {
	client := NewClient(nil, Options{})

	if !strings.HasPrefix(client.prodAPIURL("1"), DefaultAPIBaseURL) {
		t.Errorf("Expected default API base URL, got: %s", client.prodAPIURL("1"))
	}
	if !strings.HasPrefix(client.commentsURL("1"), DefaultSiteBaseURL) {
		t.Errorf("Expected default site base URL, got: %s", client.commentsURL("1"))
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  a \n\t b  "); got != "a b" {
		t.Errorf("Expected 'a b', got: %q", got)
	}
	// "e" followed by a combining acute accent composes to a single rune.
	if got := cleanText("cafe\u0301"); got != "caf\u00e9" {
		t.Errorf("Expected NFC composed text, got: %q", got)
	}
}

func TestExtractVoteNamespaceOrder(t *testing.T) {
	parser := NewCommentParser()
	vote := func(value string) map[string][]ext.Extension {
		return map[string][]ext.Extension{"vote": {{Name: "vote", Value: value}}}
	}

	extensions := ext.Extensions{"zz": vote("sucks"), "aa": vote("isok"), "mm": vote("rulez")}
	for i := 0; i < 20; i++ {
		if got := parser.extractVote(extensions); got != "isok" {
			t.Fatalf("Expected vote from first namespace by name, got: %s", got)
		}
	}

	extensions["pouet"] = vote("rulez")
	if got := parser.extractVote(extensions); got != "rulez" {
		t.Errorf("Expected pouet namespace to win, got: %s", got)
	}
}
