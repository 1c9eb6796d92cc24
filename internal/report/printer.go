// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tomtom215/ratingcorr/internal/recommend"
)

// barWidth is the widest histogram bar in characters.
const barWidth = 50

// Printer renders reports as aligned text tables.
type Printer struct {
	w io.Writer
}

// NewPrinter writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Ranking prints a heading and one line per row.
func (p *Printer) Ranking(heading string, rows []Row) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\n%s\n", heading)
	fmt.Fprintln(tw, "#\tTITLE\tMEAN\tRATINGS")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%d\n", i+1, r.Title, r.MeanRating, r.RatingCount)
	}
	return tw.Flush()
}

// Recommendations prints a similarity response.
func (p *Printer) Recommendations(resp *recommend.Response) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nTop %d items similar to %s (%d candidates, %d undefined)\n",
		len(resp.Items), resp.Reference, resp.TotalCandidates, resp.Undefined)
	fmt.Fprintln(tw, "#\tTITLE\tCORRELATION\tRATINGS\tSHARED")
	for i, r := range resp.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%d\t%d\n", i+1, r.Title, r.Correlation, r.RatingCount, r.Support)
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(tw, "-\t(no items met the support threshold)\t\t\t")
	}
	return tw.Flush()
}

// Histogram prints one bar per bucket, scaled to the fullest bucket.
func (p *Printer) Histogram(heading string, h Histogram) error {
	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\n%s\n", heading)
	for i, edge := range h.Edges() {
		bar := 0
		if peak > 0 {
			bar = h.Counts[i] * barWidth / peak
		}
		fmt.Fprintf(tw, "%.2f\t%d\t %s\n", edge, h.Counts[i], strings.Repeat("#", bar))
	}
	return tw.Flush()
}
