// Package pipeline runs the per-category batch: growth, stats, then ranking,
// under the category's writer lock. Categories are independent and run in
// parallel up to the configured worker count.
package pipeline
