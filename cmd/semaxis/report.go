package main

import (
	"fmt"
	"io"
	"strings"

	"semaxis/internal/evaluation"
	"semaxis/internal/projection"
)

func printProjections(w io.Writer, ps []projection.Projection) {
	for i, p := range ps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Text: %s\n", p.Text)
		fmt.Fprintf(w, "Score: %.4f\n", p.Score)
		fmt.Fprintf(w, "Interpretation: %s\n", p.Relevance.Description())
		fmt.Fprintf(w, "Mask type: %s\n", p.Relevance.MaskType())
	}
}

func printReport(w io.Writer, r evaluation.Report) {
	l := r.Labels
	fmt.Fprintln(w, "Classification")
	fmt.Fprintf(w, "  accuracy   %.4f\n", l.Accuracy)
	fmt.Fprintf(w, "  precision  %.4f\n", l.Precision)
	fmt.Fprintf(w, "  recall     %.4f\n", l.Recall)
	fmt.Fprintf(w, "  f1         %.4f\n", l.F1)
	fmt.Fprintf(w, "  confusion  tp=%d fp=%d fn=%d tn=%d\n", l.Confusion.TP, l.Confusion.FP, l.Confusion.FN, l.Confusion.TN)

	s := r.Separation
	fmt.Fprintln(w, "Separation")
	fmt.Fprintf(w, "  positive   mean %.4f  std %.4f\n", s.PositiveMean, s.PositiveStd)
	fmt.Fprintf(w, "  negative   mean %.4f  std %.4f\n", s.NegativeMean, s.NegativeStd)
	fmt.Fprintf(w, "  distance   %.4f\n", s.Separation)
	fmt.Fprintf(w, "  overlap    %.4f\n", s.Overlap)

	c := r.Consistency
	fmt.Fprintln(w, "Consistency")
	fmt.Fprintf(w, "  score      %.4f (%d inversions)\n", c.Consistency, c.Inversions)
	fmt.Fprintf(w, "  ranking    %s\n", strings.Join(c.ActualOrder, " | "))

	fmt.Fprintf(w, "Overall %.4f (%s)\n", r.Overall, r.Quality)
}
