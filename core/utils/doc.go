// Package utils holds conversions for loosely typed input: scraped payload
// scalars and query-string flags.
package utils
