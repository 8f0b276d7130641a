// Package extract is the remote-data collaborator: it downloads one Parquet
// file per month from the trip-record archive and merges the range into a
// single source table file.
//
// Downloads run in parallel; nothing here is timed. The merge delegates to
// DuckDB so months with drifting schemas union by column name, the same way
// the source files are published.
package extract

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"golang.org/x/sync/errgroup"

	"github.com/pqbench/pqbench/internal/config"
	"github.com/pqbench/pqbench/internal/logging"
)

var log = logging.Component("extract")

// Client downloads and merges monthly trip-record files.
type Client struct {
	baseURL     string
	year        int
	cacheDir    string
	memoryLimit string
	hc          *http.Client
}

// New creates a client from the extract configuration. memoryLimit caps
// DuckDB memory during the merge; empty means the engine default.
func New(cfg config.ExtractConfig, memoryLimit string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		year:        cfg.Year,
		cacheDir:    cfg.CacheDir,
		memoryLimit: memoryLimit,
		hc:          &http.Client{Timeout: 30 * time.Minute},
	}
}

// monthName returns the published filename for one month.
func (c *Client) monthName(month int) string {
	return fmt.Sprintf("yellow_tripdata_%d-%02d.parquet", c.year, month)
}

// MergedPath returns the cache path of the merged source table for a range.
func (c *Client) MergedPath(monthStart, monthStop int) string {
	return filepath.Join(c.cacheDir,
		fmt.Sprintf("yellow_tripdata_%d-%02d%02d_merged.parquet", c.year, monthStart, monthStop))
}

// SourceTable downloads every month in [monthStart, monthStop] and merges
// them into one Parquet file, returning its path. Cached files are reused.
func (c *Client) SourceTable(ctx context.Context, monthStart, monthStop int) (string, error) {
	paths, err := c.fetch(ctx, monthStart, monthStop)
	if err != nil {
		return "", err
	}

	merged := c.MergedPath(monthStart, monthStop)
	if _, err := os.Stat(merged); err == nil {
		log.Info("merged source cached", "path", merged)
		return merged, nil
	}

	if err := c.merge(ctx, paths, merged); err != nil {
		return "", err
	}
	return merged, nil
}

// fetch downloads the month range in parallel, reusing cached files.
func (c *Client) fetch(ctx context.Context, monthStart, monthStop int) ([]string, error) {
	if err := config.EnsureDir(c.cacheDir); err != nil {
		return nil, err
	}

	months := make([]int, 0, monthStop-monthStart+1)
	for m := monthStart; m <= monthStop; m++ {
		months = append(months, m)
	}

	paths := make([]string, len(months))
	g, ctx := errgroup.WithContext(ctx)

	for i, m := range months {
		paths[i] = filepath.Join(c.cacheDir, c.monthName(m))
		if _, err := os.Stat(paths[i]); err == nil {
			log.Info("month cached", "file", c.monthName(m))
			continue
		}

		url := c.baseURL + "/" + c.monthName(m)
		dst := paths[i]
		g.Go(func() error {
			return c.download(ctx, url, dst)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// download fetches one file to a temporary path and renames it into place,
// so an interrupted run never leaves a truncated cache file behind.
func (c *Client) download(ctx context.Context, url, dst string) error {
	log.Info("downloading", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename download: %w", err)
	}

	log.Info("downloaded", "file", filepath.Base(dst), "bytes", n)
	return nil
}

// merge unions the monthly files by column name into one Parquet file.
func (c *Client) merge(ctx context.Context, paths []string, outPath string) error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if c.memoryLimit != "" {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("SET memory_limit='%s'", c.memoryLimit)); err != nil {
			return fmt.Errorf("set memory limit: %w", err)
		}
	}

	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "'" + strings.ReplaceAll(p, "'", "''") + "'"
	}

	stmt := fmt.Sprintf(
		"COPY (SELECT * FROM read_parquet([%s], union_by_name=true, filename=true)) TO '%s' (FORMAT parquet)",
		strings.Join(quoted, ", "),
		strings.ReplaceAll(outPath, "'", "''"))

	log.Info("merging months", "files", len(paths), "out", outPath)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("merge months: %w", err)
	}
	return nil
}
