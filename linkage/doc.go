// Package linkage fits measured leverage curves.
//
// Frame manufacturers and linkage tools publish a leverage ratio curve as
// (wheel travel, leverage ratio) points, or as raw shock and wheel travel
// pairs. The calculator only needs the start and end ratios and the
// progression between them. Fit reduces a curve to those numbers by fitting
// least squares models and keeping the best one by R²:
//
//   - Linear:    LR = a + b*w
//   - Quadratic: LR = a + b*w + c*w²
//
// Example:
//
//	samples, _ := linkage.ReadCSVFile("curve.csv")
//	res, err := linkage.Fit(samples)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("start %.2f end %.2f progression %.1f%%\n",
//		res.Start(), res.End(), res.ProgressionPct())
package linkage
