// Package main loads IMDb dataset dumps into the CineVault catalog tables.
//
// Download the TSV files from https://datasets.imdbws.com/ into one
// directory; gzipped and plain files are both accepted.
//
// Usage:
//
//	go run ./cmd/seed -imdb-dir ~/imdb
//	go run ./cmd/seed -imdb-dir ~/imdb -title-types movie,tvMovie -db-driver mysql -db-dsn 'user:pass@/imdb'
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cinevault/cinevault-server/internal/config"
	"github.com/cinevault/cinevault-server/internal/store/sqldb"
)

var (
	imdbDir    = flag.String("imdb-dir", ".", "Directory holding the IMDb *.tsv or *.tsv.gz dumps")
	titleTypes = flag.String("title-types", "", "Comma-separated titleType values to keep from title.basics (default: all)")
)

func main() {
	// LoadConfig parses the command line, including the flags above.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Opening %s database\n", cfg.Database.Driver)

	s, err := sqldb.Open(ctx, sqldb.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	var types []string
	if *titleTypes != "" {
		types = strings.Split(*titleTypes, ",")
	}

	loaded := 0
	for _, d := range dumps {
		path, ok := findDump(*imdbDir, d.file)
		if !ok {
			fmt.Printf("  %-18s not found, skipping\n", d.file)
			continue
		}

		var keep filter
		if d.table.Name == sqldb.TableBasics.Name {
			keep = titleTypeFilter(types)
		}

		start := time.Now()
		n, err := loadFile(ctx, s, path, d.table, keep)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		loaded++
		fmt.Printf("  %-18s %d rows in %s\n", d.file, n, time.Since(start).Round(time.Millisecond))
	}

	if loaded == 0 {
		log.Fatalf("No IMDb dumps found in %s", *imdbDir)
	}
	fmt.Println("Done.")
}

func loadFile(ctx context.Context, s *sqldb.Store, path string, t sqldb.Table, keep filter) (int, error) {
	r, err := openDump(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return loadTSV(ctx, r, t, s, keep)
}
