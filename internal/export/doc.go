// Package export writes and reads recorded trajectories: the semicolon
// separated results table, a JSON run document, an SVG trace and a PNG
// figure of every column against time.
package export
