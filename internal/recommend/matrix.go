// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"sort"
)

// Cell is one stored rating in a matrix column.
type Cell struct {
	UserID int
	Rating float64
}

// RatingMatrix is a sparse item by user view of the store.
//
// Each column holds the cells of one rated item, sorted by user id. A matrix
// is never modified after BuildMatrix returns, so it can be shared between
// goroutines without locking.
type RatingMatrix struct {
	columns map[string][]Cell
	titles  []string
	users       int
	version     uint64
	fingerprint uint64
}

// BuildMatrix derives a RatingMatrix from the store's observations.
//
// When a user rated the same item more than once, the last observation in
// ingestion order wins; earlier ratings for that pair are discarded. Items
// without observations get no column. The result depends only on the
// observation sequence.
func BuildMatrix(store *RatingStore) *RatingMatrix {
	return buildMatrix(store.view(false))
}

//nolint:gocritic // rangeValCopy: Observation is small
func buildMatrix(v storeView) *RatingMatrix {
	observations, titles, version := v.observations, v.titles, v.version

	// Index of the latest rating per (item, user).
	latest := make(map[int]map[int]float64)
	users := make(map[int]struct{})
	for _, obs := range observations {
		col := latest[obs.ItemID]
		if col == nil {
			col = make(map[int]float64)
			latest[obs.ItemID] = col
		}
		col[obs.UserID] = obs.Rating
		users[obs.UserID] = struct{}{}
	}

	m := &RatingMatrix{
		columns: make(map[string][]Cell, len(latest)),
		titles:  make([]string, 0, len(latest)),
		users:       len(users),
		version:     version,
		fingerprint: v.fingerprint,
	}

	for itemID, col := range latest {
		cells := make([]Cell, 0, len(col))
		for userID, rating := range col {
			cells = append(cells, Cell{UserID: userID, Rating: rating})
		}
		sort.Slice(cells, func(a, b int) bool {
			return cells[a].UserID < cells[b].UserID
		})

		title := titles[itemID]
		m.columns[title] = cells
		m.titles = append(m.titles, title)
	}
	sort.Strings(m.titles)

	return m
}

// Column returns the cells for a title in ascending user order.
// The returned slice must not be modified.
func (m *RatingMatrix) Column(title string) ([]Cell, bool) {
	cells, ok := m.columns[title]
	return cells, ok
}

// Rating returns the stored rating for a user and title.
func (m *RatingMatrix) Rating(title string, userID int) (float64, bool) {
	cells, ok := m.columns[title]
	if !ok {
		return 0, false
	}
	i := sort.Search(len(cells), func(i int) bool {
		return cells[i].UserID >= userID
	})
	if i < len(cells) && cells[i].UserID == userID {
		return cells[i].Rating, true
	}
	return 0, false
}

// Has reports whether the matrix has a column for title.
func (m *RatingMatrix) Has(title string) bool {
	_, ok := m.columns[title]
	return ok
}

// Titles returns the column titles in ascending order.
func (m *RatingMatrix) Titles() []string {
	out := make([]string, len(m.titles))
	copy(out, m.titles)
	return out
}

// Len returns the number of columns.
func (m *RatingMatrix) Len() int {
	return len(m.titles)
}

// Users returns the number of distinct users with at least one cell.
func (m *RatingMatrix) Users() int {
	return m.users
}

// Version returns the store version the matrix was built from.
func (m *RatingMatrix) Version() uint64 {
	return m.version
}

// Fingerprint returns the content fingerprint of the store the matrix was built from.
func (m *RatingMatrix) Fingerprint() uint64 {
	return m.fingerprint
}
