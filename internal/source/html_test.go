package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/store"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<div class="minutes-container card-view">
  <article class="minutes-card" data-slug="2024-03-05-general" data-title="General Meeting"
           data-content="Budget &lt;b&gt;vote&lt;/b&gt; passed" data-year="2024">
    <h2 class="card-title"><a class="card-link" href="/minutes/2024-03-05-general/">General   Meeting</a></h2>
    <time datetime="2024-03-05">March 5</time>
    <p class="card-excerpt">
      Budget vote
      passed
    </p>
  </article>
  <article class="card minutes-card" data-content="No slug here" data-date="2023-10-10">
    <h2 class="card-title"><a class="card-link" href="/minutes/untitled/">Untitled <em>Meeting</em></a></h2>
  </article>
  <div class="not-a-card" data-slug="ignored"></div>
</div>
</body></html>`

func TestParseCards(t *testing.T) {
	raws, err := ParseCards([]byte(listingHTML))
	if err != nil {
		t.Fatalf("ParseCards() error = %v", err)
	}

	want := []model.RawDocument{
		{
			Slug:    "2024-03-05-general",
			Title:   "General Meeting",
			Content: "Budget vote passed",
			Excerpt: "Budget vote passed",
			Year:    "2024",
			Date:    "2024-03-05",
			URL:     "/minutes/2024-03-05-general/",
		},
		{
			ID:      "#1",
			Title:   "Untitled Meeting",
			Content: "No slug here",
			Date:    "2023-10-10",
			URL:     "/minutes/untitled/",
		},
	}
	if !reflect.DeepEqual(raws, want) {
		t.Errorf("ParseCards() =\n%+v\nwant\n%+v", raws, want)
	}
}

func TestParseCards_NoCards(t *testing.T) {
	raws, err := ParseCards([]byte("<html><body><p>nothing</p></body></html>"))
	if err != nil {
		t.Fatalf("ParseCards() error = %v", err)
	}
	if len(raws) != 0 {
		t.Errorf("ParseCards() = %+v, want none", raws)
	}
}

func TestHTMLSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutes.html")
	if err := os.WriteFile(path, []byte(listingHTML), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := New(Options{Kind: KindHTML, Location: path, BaseURL: "https://cclub.example.org"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	raws, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(raws) != 2 {
		t.Fatalf("len = %d, want 2", len(raws))
	}
	if raws[0].URL != "https://cclub.example.org/minutes/2024-03-05-general/" {
		t.Errorf("URL = %q", raws[0].URL)
	}

	// Positional ids survive store validation
	for _, r := range raws {
		if r.Identifier() == "" {
			t.Errorf("record %+v has no identifier", r)
		}
	}
}

func TestParseCards_PositionalIDsDoNotCollideWithSlugs(t *testing.T) {
	page := `<html><body>
<article class="minutes-card" data-title="No slug"></article>
<article class="minutes-card" data-slug="0" data-title="Numeric slug"></article>
</body></html>`

	raws, err := ParseCards([]byte(page))
	if err != nil {
		t.Fatalf("ParseCards() error = %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("len = %d, want 2", len(raws))
	}
	if raws[0].Identifier() != "#0" || raws[1].Identifier() != "0" {
		t.Errorf("identifiers = %q, %q; want #0 and 0", raws[0].Identifier(), raws[1].Identifier())
	}
	if _, err := store.Load(raws); err != nil {
		t.Errorf("store.Load() error = %v", err)
	}
}
