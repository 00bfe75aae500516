package users

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
)

// Header is the exact CSV header row of the output file.
var Header = []string{"id", "name", "email", "full_address"}

// CSVLoader writes cleaned users to a CSV file, creating parent directories
// as needed. The file handle is closed on every path; a failed write may
// leave a partial file behind but never a leaked handle.
type CSVLoader struct {
	path string
	log  *slog.Logger
}

func NewCSVLoader(path string, log *slog.Logger) *CSVLoader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &CSVLoader{path: path, log: log}
}

// Path returns the configured output path.
func (l *CSVLoader) Path() string { return l.path }

// Write creates the output file and writes the header row followed by one
// row per record, in input order. It returns the number of data rows
// written. Zero records is valid and produces a header-only file.
func (l *CSVLoader) Write(records []domain.CleanUser) (int, error) {
	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, l.writeErr("users.load.mkdir", err)
		}
	}

	f, err := os.Create(l.path)
	if err != nil {
		return 0, l.writeErr("users.load.create", err)
	}

	rows, werr := writeRows(f, records)
	cerr := f.Close()

	if werr != nil {
		return 0, l.writeErr("users.load.write", werr)
	}
	if cerr != nil {
		return 0, l.writeErr("users.load.close", cerr)
	}

	l.log.Info("load.complete", "path", l.path, "rows", rows)
	return rows, nil
}

func writeRows(w io.Writer, records []domain.CleanUser) (int, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return 0, err
	}

	rows := 0
	for _, u := range records {
		row := []string{strconv.Itoa(u.ID), u.Name, u.Email, u.FullAddress}
		if err := cw.Write(row); err != nil {
			return rows, err
		}
		rows++
	}

	cw.Flush()
	return rows, cw.Error()
}

// Verify re-opens the written file, checks the header, and returns the
// number of data rows. A missing file, unreadable CSV, or wrong header is a
// write-kind failure.
func (l *CSVLoader) Verify() (int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return 0, l.writeErr("users.load.verify", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)

	header, err := cr.Read()
	if err != nil {
		return 0, l.writeErr("users.load.verify", fmt.Errorf("reading header: %w", err))
	}
	if !slices.Equal(header, Header) {
		return 0, l.writeErr("users.load.verify", fmt.Errorf("unexpected header %v", header))
	}

	rows := 0
	for {
		_, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, l.writeErr("users.load.verify", err)
		}
		rows++
	}

	l.log.Info("load.verified", "path", l.path, "rows", rows)
	return rows, nil
}

func (l *CSVLoader) writeErr(op string, err error) error {
	return &domain.OpError{Op: op, Kind: domain.KindWrite, Path: l.path, Err: err}
}
