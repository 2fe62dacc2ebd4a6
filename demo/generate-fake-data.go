package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ccowmu/minutes/internal/cache"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/prefs"
	"github.com/ccowmu/minutes/internal/present"
	"github.com/ccowmu/minutes/internal/source"
)

func main() {
	// Create demo directory in demo/data
	demoDir := "demo/data"
	cacheDir := filepath.Join(demoDir, "cache")
	if err := os.MkdirAll(demoDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create demo dir: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating fake data in: %s\n", demoDir)

	minutes := []model.RawDocument{
		// 2024
		{
			Slug:    "2024-04-02-general",
			Title:   "General Meeting",
			Date:    "2024-04-02",
			Content: "Attendance 23. Server room cleanup scheduled for Saturday. Treasurer reported the budget is on track. Motion to buy a new switch passed 18-2.",
		},
		{
			Slug:    "2024-03-19-officers",
			Title:   "Officer Meeting",
			Date:    "2024-03-19",
			Content: "Discussed election timeline. Nominations open at the next general meeting. Pizza order for the hackathon approved.",
		},
		{
			Slug:    "2024-03-05-general",
			Title:   "General Meeting",
			Date:    "2024-03-05",
			Content: "Budget vote for the spring semester. Kernel talk by a guest speaker moved to April. Minecraft server upgrade complete.",
		},
		{
			Slug:    "2024-02-20-general",
			Title:   "General Meeting",
			Date:    "2024-02-20",
			Content: "Lightning talks: Nix flakes, home lab networking, writing a tiny shell. Reminder to pay dues.",
		},
		{
			Slug:    "2024-01-09-officers",
			Title:   "Officer Meeting",
			Date:    "2024-01-09",
			Content: "Semester planning. Room reservation renewed. Backup rotation for the file server reviewed.",
		},

		// 2023
		{
			Slug:    "2023-11-14-general",
			Title:   "General Meeting",
			Date:    "2023-11-14",
			Content: "Kernel talk scheduling. CTF team placed third regionally. Motion to fund travel to the next competition tabled.",
		},
		{
			Slug:    "2023-10-03-general",
			Title:   "General Meeting",
			Date:    "2023-10-03",
			Content: "Elections held. New president, treasurer and secretary sworn in. Budget handed over.",
		},
		{
			Slug:    "2023-09-12-general",
			Title:   "First Meeting of the Year",
			Date:    "2023-09-12",
			Content: "Welcome back. Club tour of the server room. Sign-up sheet for the mailing list and chat.",
		},
		{
			Slug:    "2023-04-18-general",
			Title:   "General Meeting",
			Date:    "2023-04-18",
			Content: "End of year party planning. Donated hardware inventoried. Retired the old web server.",
		},

		// 2022
		{
			Slug:    "2022-11-29-general",
			Title:   "General Meeting",
			Date:    "2022-11-29",
			Content: "Git workshop. Constitution amendment on quorum read for the first time.",
		},
		{
			Slug:    "2022-10-11-officers",
			Title:   "Officer Meeting",
			Date:    "2022-10-11",
			Content: "Quorum amendment drafted. Budget request submitted to student government.",
		},
	}

	// Save the source index as the site would publish it
	indexFile := filepath.Join(demoDir, "index.json")
	data, err := json.MarshalIndent(minutes, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal minutes: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(indexFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write index: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Created minutes index (%d minutes)\n", len(minutes))

	// Fill the cache as if synced from the demo site
	demoLocation := "https://cclub.example.org/index.json"
	cached := make([]model.RawDocument, len(minutes))
	copy(cached, minutes)
	for i := range cached {
		cached[i].URL = source.ResolveURL("https://cclub.example.org", source.MinutesPath(cached[i].Slug))
	}

	cacheManager := cache.New(cacheDir)
	if err := cacheManager.WriteDocuments(cached); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write cache: %v\n", err)
		os.Exit(1)
	}
	if err := cacheManager.SaveSource(demoLocation); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save cache source: %v\n", err)
		os.Exit(1)
	}
	if err := cacheManager.SaveLastFetchTime(time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save fetch time: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Created cache\n")

	// Start the demo in list view
	ps, err := prefs.Open(cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open preferences: %v\n", err)
		os.Exit(1)
	}
	if err := ps.Set(present.ViewPreferenceKey, string(model.ViewList)); err != nil {
		_ = ps.Close()
		fmt.Fprintf(os.Stderr, "Failed to save preference: %v\n", err)
		os.Exit(1)
	}
	if err := ps.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close preferences: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Created preferences\n")

	fmt.Printf("\n✅ Demo data generated successfully!\n\n")
	fmt.Printf("To search the local index:\n")
	fmt.Printf("  MINUTES_SOURCE_LOCATION=$(pwd)/%s minutes\n\n", indexFile)
	fmt.Printf("To search the cached copy offline:\n")
	fmt.Printf("  MINUTES_SOURCE_LOCATION=%s MINUTES_CACHE_DIR=$(pwd)/%s minutes\n\n", demoLocation, cacheDir)
	fmt.Printf("Demo directory: %s\n", demoDir)
}
