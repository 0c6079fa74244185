// Package analytics computes the reports served over a normalized dataset.
//
// Every function is a pure read over []domain.Record: nothing is cached and
// nothing is mutated, so reports can be recomputed on each request.
//
// # Tables
//
// A [Table] groups records by one [Dimension] and carries, per group, the
// incident count, total and child casualty sums, the share of all incidents
// (one decimal) and mortality and injury rates per 100 incidents (two
// decimals). Groups come out in ascending key order; [Rank] reorders them by
// count with a stable sort, so equal counts keep key order.
//
// # Degraded Results
//
// Reports never fail. When the data cannot support a figure (a single year,
// no coordinates, no prior year) the result carries a [domain.Note] and, where
// it has one, a [Status] of [StatusInsufficient].
package analytics
