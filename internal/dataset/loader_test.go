// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/recommend"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleTitles = `item_id,title
1,Toy Story (1995)
2,GoldenEye (1995)
3,"Shawshank Redemption, The (1994)"
`

const sampleRatings = "196\t1\t3\t881250949\n" +
	"186\t2\t3\t891717742\n" +
	"22\t3\t1\t878887116\n" +
	"244\t1\t2\t880606923\n"

func newTestLoader(t *testing.T, titles, ratings string) *Loader {
	t.Helper()
	dir := t.TempDir()
	loader, err := NewLoader(Config{
		RatingsPath: writeFile(t, dir, "u.data", ratings),
		TitlesPath:  writeFile(t, dir, "titles.csv", titles),
		Threads:     1,
	}, testLogger())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	return loader
}

func TestNewLoader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{RatingsPath: "r", TitlesPath: "t"}, false},
		{"explicit delimiter", Config{RatingsPath: "r", TitlesPath: "t", RatingsDelimiter: ","}, false},
		{"missing ratings", Config{TitlesPath: "t"}, true},
		{"missing titles", Config{RatingsPath: "r"}, true},
		{"long delimiter", Config{RatingsPath: "r", TitlesPath: "t", RatingsDelimiter: "::"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loader, err := NewLoader(tt.cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLoader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && loader.cfg.RatingsDelimiter == "" {
				t.Error("RatingsDelimiter not defaulted")
			}
		})
	}
}

func TestLoader_LoadTitles(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, sampleTitles, sampleRatings)
	titles, err := loader.LoadTitles(context.Background())
	if err != nil {
		t.Fatalf("LoadTitles() error = %v", err)
	}

	want := map[int]string{
		1: "Toy Story (1995)",
		2: "GoldenEye (1995)",
		3: "Shawshank Redemption, The (1994)",
	}
	if len(titles) != len(want) {
		t.Fatalf("len(titles) = %d, want %d", len(titles), len(want))
	}
	for id, title := range want {
		if titles[id] != title {
			t.Errorf("titles[%d] = %q, want %q", id, titles[id], title)
		}
	}
}

func TestLoader_LoadTitles_Duplicate(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, "item_id,title\n1,A\n1,B\n", sampleRatings)
	_, err := loader.LoadTitles(context.Background())
	if !errors.Is(err, recommend.ErrValidation) {
		t.Errorf("LoadTitles() error = %v, want ErrValidation", err)
	}
}

func TestLoader_LoadObservations(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, sampleTitles, sampleRatings)
	obs, err := loader.LoadObservations(context.Background())
	if err != nil {
		t.Fatalf("LoadObservations() error = %v", err)
	}
	if len(obs) != 4 {
		t.Fatalf("len(obs) = %d, want 4", len(obs))
	}

	first := recommend.Observation{UserID: 196, ItemID: 1, Rating: 3, Timestamp: 881250949}
	if obs[0] != first {
		t.Errorf("obs[0] = %+v, want %+v", obs[0], first)
	}
	if obs[3].UserID != 244 || obs[3].Rating != 2 {
		t.Errorf("obs[3] = %+v, want user 244 rating 2", obs[3])
	}
}

func TestLoader_CustomDelimiter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	loader, err := NewLoader(Config{
		RatingsPath:      writeFile(t, dir, "ratings.csv", "1,1,4.5,0\n2,1,5,0\n"),
		RatingsDelimiter: ",",
		TitlesPath:       writeFile(t, dir, "titles.csv", sampleTitles),
	}, testLogger())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	obs, err := loader.LoadObservations(context.Background())
	if err != nil {
		t.Fatalf("LoadObservations() error = %v", err)
	}
	if len(obs) != 2 || obs[0].Rating != 4.5 {
		t.Errorf("obs = %+v, want 2 rows with first rating 4.5", obs)
	}
}

func TestLoader_MissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	loader, err := NewLoader(Config{
		RatingsPath: filepath.Join(dir, "missing.data"),
		TitlesPath:  filepath.Join(dir, "missing.csv"),
	}, testLogger())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if _, err := loader.LoadTitles(context.Background()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadTitles() error = %v, want ErrFileNotFound", err)
	}
	if _, err := loader.LoadObservations(context.Background()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadObservations() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoader_EngineLoad(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, sampleTitles, sampleRatings)
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetDataProvider(loader)

	if err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	stats, err := engine.Stats("Toy Story (1995)")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.RatingCount != 2 || stats.MeanRating != 2.5 {
		t.Errorf("Stats() = %+v, want count 2 mean 2.5", stats)
	}
}

func TestSQLString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"data/u.data", "'data/u.data'"},
		{"it's", "'it''s'"},
		{"\t", "'\t'"},
	}
	for _, tt := range tests {
		if got := sqlString(tt.in); got != tt.want {
			t.Errorf("sqlString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
