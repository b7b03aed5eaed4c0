package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cinevault/cinevault-server/internal/store/sqldb"
)

// nullField marks a missing value in the IMDb dumps.
const nullField = `\N`

// batchSize is the number of rows handed to the store per transaction.
const batchSize = 5000

// dump is one IMDb dataset file and the table it fills.
type dump struct {
	file  string
	table sqldb.Table
}

// dumps lists the datasets in load order.
var dumps = []dump{
	{"title.basics", sqldb.TableBasics},
	{"title.crew", sqldb.TableCrew},
	{"title.ratings", sqldb.TableRatings},
	{"name.basics", sqldb.TableNames},
	{"title.principals", sqldb.TablePrincipals},
}

// columnKinds converts columns that are not plain text.
var columnKinds = map[string]func(string) (any, error){
	"startYear":      parseInt,
	"runtimeMinutes": parseInt,
	"numVotes":       parseInt,
	"ordering":       parseInt,
	"averageRating":  parseFloat,
}

func parseInt(s string) (any, error) { return strconv.Atoi(s) }

func parseFloat(s string) (any, error) { return strconv.ParseFloat(s, 64) }

// inserter receives parsed rows.
type inserter interface {
	InsertRows(ctx context.Context, t sqldb.Table, rows [][]any) error
}

// filter decides whether a parsed row is kept. It sees the row by column name.
type filter func(row map[string]string) bool

// findDump returns the path of name.tsv.gz or name.tsv in dir.
func findDump(dir, name string) (string, bool) {
	for _, ext := range []string{".tsv.gz", ".tsv"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// openDump opens path, transparently decompressing gzip content.
func openDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(f, 1<<20)
	magic, _ := br.Peek(2)
	if !bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		return struct {
			io.Reader
			io.Closer
		}{br, f}, nil
	}
	gz, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{gz, closers{gz, f}}, nil
}

type closers []io.Closer

func (c closers) Close() error {
	var first error
	for _, cl := range c {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// loadTSV reads an IMDb dump with a header row and inserts the columns of t.
// Rows rejected by keep are skipped. It returns the number of rows inserted.
func loadTSV(ctx context.Context, r io.Reader, t sqldb.Table, dst inserter, keep filter) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%s: empty dump", t.Name)
	}
	header := strings.Split(sc.Text(), "\t")
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range t.Columns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("%s: dump has no %q column", t.Name, col)
		}
	}

	var (
		batch    = make([][]any, 0, batchSize)
		inserted int
		line     = 1
	)
	flush := func() error {
		if err := dst.InsertRows(ctx, t, batch); err != nil {
			return err
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		line++
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != len(header) {
			return inserted, fmt.Errorf("%s line %d: %d fields, want %d", t.Name, line, len(fields), len(header))
		}

		if keep != nil {
			named := make(map[string]string, len(header))
			for name, i := range index {
				named[name] = fields[i]
			}
			if !keep(named) {
				continue
			}
		}

		row := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			raw := fields[index[col]]
			if raw == nullField {
				continue
			}
			conv, ok := columnKinds[col]
			if !ok {
				row[i] = raw
				continue
			}
			v, err := conv(raw)
			if err != nil {
				return inserted, fmt.Errorf("%s line %d: column %s: %w", t.Name, line, col, err)
			}
			row[i] = v
		}
		batch = append(batch, row)

		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return inserted, fmt.Errorf("%s: %w", t.Name, err)
	}
	if err := flush(); err != nil {
		return inserted, err
	}
	return inserted, nil
}

// titleTypeFilter keeps basics rows whose titleType is one of types.
func titleTypeFilter(types []string) filter {
	if len(types) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return func(row map[string]string) bool {
		return allowed[row["titleType"]]
	}
}
