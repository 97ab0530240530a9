package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/prodwatch/app/cfg"
	"github.com/lysyi3m/prodwatch/app/prod"
)

func TestOpenStoreFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := &cfg.Cfg{CacheDir: dir, Store: cfg.StoreFile}

	store, err := openStore(c)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := store.Save("1", &prod.Response{Success: true}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	store.Close()

	c.ClearCache = true
	store, err = openStore(c)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer store.Close()

	if ids, _ := store.IDs(); len(ids) != 0 {
		t.Errorf("Expected cleared cache, got %v", ids)
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := &cfg.Cfg{CacheDir: dir, Store: cfg.StoreSQLite}

	store, err := openStore(c)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, "snapshots.db")); err != nil {
		t.Errorf("Expected database in cache directory, got: %v", err)
	}
}

func TestOpenStoreUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := openStore(&cfg.Cfg{CacheDir: filepath.Join(blocker, "cache"), Store: cfg.StoreFile}); err == nil {
		t.Error("Expected error when cache directory cannot be created")
	}
}

func TestNewSink(t *testing.T) {
	sink, err := newSink(&cfg.Cfg{}, http.DefaultClient)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if names := sink.SinkNames(); len(names) != 1 || names[0] != "console" {
		t.Errorf("Expected console only, got %v", names)
	}

	sink, err = newSink(&cfg.Cfg{
		WebhookURL:     "https://hooks.example.com/x",
		TelegramToken:  "123:abc",
		TelegramChatID: 42,
	}, http.DefaultClient)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	names := sink.SinkNames()
	if len(names) != 3 || names[1] != "webhook" || names[2] != "telegram" {
		t.Errorf("Expected [console webhook telegram], got %v", names)
	}
}
