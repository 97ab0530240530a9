package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/lysyi3m/prodwatch/app/pouet"
	"github.com/lysyi3m/prodwatch/app/snapshot"
)

const firstPayload = `{"success":true,"prod":{"id":"12345","name":"Foo","voteup":"5","votepig":"1","votedown":"0","cdc":0,"sceneorg":"123","demozoo":"999","party_place":"1","credits":[{"user":{"id":"5"},"role":"code"}]}}`

// Same counters, new credits and download links.
const unchangedPayload = `{"success":true,"prod":{"id":"12345","name":"Foo","voteup":"5","votepig":"1","votedown":"0","cdc":0,"sceneorg":"123","demozoo":"999","party_place":"1","credits":[{"user":{"id":"5"},"role":"code"},{"user":{"id":"6"},"role":"music"}],"downloadLinks":[{"type":"youtube","link":"https://example.com/v"}]}}`

const changedPayload = `{"success":true,"prod":{"id":"12345","name":"Foo","voteup":"7","votepig":"2","votedown":"0","cdc":1,"sceneorg":"123","demozoo":"999","party_place":"1","awards":[]}}`

const pipelineRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:pouet="https://www.pouet.net/">
  <channel>
    <title>comments</title>
    <link>https://www.pouet.net/prod.php?which=12345</link>
    <description>latest comments</description>
    <item><title>alice</title><link>https://www.pouet.net/c/2</link><description>great</description><pouet:vote>rulez</pouet:vote></item>
    <item><title>bob</title><link>https://www.pouet.net/c/1</link><description>ok</description><pouet:vote>isok</pouet:vote></item>
  </channel>
</rss>`

type pouetStub struct {
	mu            sync.Mutex
	payload       string
	commentsCalls int
}

func (s *pouetStub) setPayload(payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
}

func (s *pouetStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case "/v1/prod/":
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(s.payload))
	case "/export/lastprodcomments.rss.php":
		s.commentsCalls++
		w.Write([]byte(pipelineRSS))
	default:
		http.NotFound(w, r)
	}
}

func TestCheckAgainstPouetAndFileStore(t *testing.T) {
	stub := &pouetStub{payload: firstPayload}
	server := httptest.NewServer(stub)
	defer server.Close()

	client := pouet.NewClient(server.Client(), pouet.Options{APIBaseURL: server.URL, SiteBaseURL: server.URL})
	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "cache"))
	if err := store.Prepare(false); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	sink := &MockSink{}
	watcher := NewWatcher(client, client, store, sink, client.ProdURL)

	cacheFile := func() string {
		t.Helper()
		data, err := os.ReadFile(store.Path("12345"))
		if err != nil {
			t.Fatalf("Expected cache file, got: %v", err)
		}
		return string(data)
	}

	// First sighting caches the payload and stays silent.
	result, err := watcher.Check(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Outcome.Kind != FirstSeen {
		t.Errorf("Expected first_seen, got: %s", result.Outcome.Kind)
	}
	if got := cacheFile(); got != firstPayload {
		t.Errorf("Expected fetched payload in cache file, got: %s", got)
	}

	// Same counters, other fields changed: the cache follows the API.
	stub.setPayload(unchangedPayload)
	result, err = watcher.Check(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Outcome.Kind != Unchanged {
		t.Errorf("Expected unchanged, got: %s", result.Outcome.Kind)
	}
	if got := cacheFile(); got != unchangedPayload {
		t.Errorf("Expected refreshed payload in cache file, got: %s", got)
	}
	if len(sink.messages) != 0 || stub.commentsCalls != 0 {
		t.Errorf("Expected no notification and no comment fetch, got %d messages, %d fetches", len(sink.messages), stub.commentsCalls)
	}

	// Three new votes, two comments available.
	stub.setPayload(changedPayload)
	result, err = watcher.Check(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Outcome.Kind != Changed || result.Outcome.Delta != 3 || result.Comments != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(sink.messages) != 1 {
		t.Fatalf("Expected one notification, got: %d", len(sink.messages))
	}
	if !strings.Contains(sink.messages[0], "<https://www.pouet.net/c/2|alice> [rulez]: great") {
		t.Errorf("Expected newest comment in message, got: %s", sink.messages[0])
	}
	if got := cacheFile(); got != changedPayload {
		t.Errorf("Expected changed payload in cache file, got: %s", got)
	}
}
