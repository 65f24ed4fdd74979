// Package dataio reads feature matrices and seed labels from CSV files and
// writes results as CSV, JSON, YAML, msgpack or a styled text summary.
//
// CSV layout for feature matrices: a header row (first cell ignored, the rest
// are feature names) followed by one row per sample whose first cell is the
// sample id. Every value must be a finite number; empty cells, NA and NaN are
// rejected since missing values must be handled before fusion.
package dataio
