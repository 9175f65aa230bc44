package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCommunity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scripts":[
			{"name":"Zigbee2MQTT","slug":"zigbee2mqtt","description":"bridge","repository":"https://github.com/Koenkk/zigbee2mqtt"},
			{"name":"AdGuard","slug":"adguard","description":"dns","website":"https://adguard.com"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, ""))
	entries, err := c.Community(context.Background())
	if err != nil {
		t.Fatalf("Community failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	// Sorted by name: AdGuard first.
	if entries[0].Name != "AdGuard" {
		t.Errorf("entries not sorted: %+v", entries)
	}
	if entries[0].RepoURL != "" {
		t.Errorf("non-github entry should have no repo URL: %q", entries[0].RepoURL)
	}
	if entries[1].RepoURL != "https://github.com/Koenkk/zigbee2mqtt" {
		t.Errorf("repo URL = %q", entries[1].RepoURL)
	}
}

func TestSelfHst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Jellyfin","slug":"jellyfin","description":"media","github":"jellyfin/jellyfin"}]`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints("", srv.URL))
	entries, err := c.SelfHst(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].RepoURL != "https://github.com/jellyfin/jellyfin" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(WithEndpoints(srv.URL, "")).Community(context.Background()); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestSearchAndFind(t *testing.T) {
	entries := []Entry{
		{Name: "Jellyfin", Slug: "jellyfin", Description: "media server"},
		{Name: "Gitea", Slug: "gitea", Description: "git hosting"},
	}

	if got := Search(entries, "media"); len(got) != 1 || got[0].Slug != "jellyfin" {
		t.Errorf("Search(media) = %+v", got)
	}
	if got := Search(entries, ""); len(got) != 2 {
		t.Errorf("empty query should return everything")
	}
	if got := Search(entries, "GITEA"); len(got) != 1 {
		t.Errorf("search should be case-insensitive")
	}

	if e, ok := Find(entries, "Jellyfin"); !ok || e.Slug != "jellyfin" {
		t.Errorf("Find by name failed")
	}
	if _, ok := Find(entries, "nope"); ok {
		t.Errorf("Find should miss unknown keys")
	}
}
