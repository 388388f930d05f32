package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/repclock/internal/export"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepClock server URL (e.g. https://repclock.tail1234.ts.net)")
	archiveDir := flag.String("dir", "", "archive directory (default ~/.repclock-export)")
	startStr := flag.String("start", "", "start date YYYY-MM-DD (default 90 days ago)")
	endStr := flag.String("end", "", "end date YYYY-MM-DD (default today)")
	force := flag.Bool("force", false, "re-fetch workouts already archived")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repclock-export", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: repclock-export -server <URL> [-dir <path>] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-force]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	start, end, err := resolveRange(*startStr, *endStr)
	if err != nil {
		log.Error("invalid date range", "error", err)
		os.Exit(1)
	}

	dir := *archiveDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(homeDir, ".repclock-export")
	}

	archive, err := export.OpenArchive(dir)
	if err != nil {
		log.Error("failed to open archive", "error", err)
		os.Exit(1)
	}
	defer archive.Close()
	log.Info("using archive", "dir", dir)

	client := export.NewClient(*serverURL)

	summaries, err := client.FetchSummaries(start, end)
	if err != nil {
		log.Error("failed to fetch summaries", "error", err)
		os.Exit(1)
	}
	log.Info("summaries fetched", "count", len(summaries), "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))

	var saved, skipped, failed int
	for _, s := range summaries {
		if !*force {
			has, err := archive.Has(s.ID)
			if err != nil {
				log.Error("archive check failed", "id", s.ID, "error", err)
				failed++
				continue
			}
			if has {
				skipped++
				continue
			}
		}

		rec, err := client.FetchWorkout(s.ID)
		if err != nil {
			log.Error("fetch failed", "id", s.ID, "error", err)
			failed++
			continue
		}
		if err := archive.Save(rec); err != nil {
			log.Error("save failed", "id", s.ID, "error", err)
			failed++
			continue
		}
		saved++
		log.Info("archived", "id", s.ID, "name", rec.Name, "date", rec.Date.Format("2006-01-02"))
	}

	log.Info("export complete", "saved", saved, "skipped", skipped, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func resolveRange(startStr, endStr string) (time.Time, time.Time, error) {
	end := time.Now()
	if endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing end: %w", err)
		}
		// Date-only input means through the end of that day.
		end = t.Add(24 * time.Hour)
	}

	start := end.AddDate(0, 0, -90)
	if startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing start: %w", err)
		}
		start = t
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start %s is not before end %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}
