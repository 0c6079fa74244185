// Package domain models fire incident registers and normalizes them for
// reporting.
//
// # Data Source
//
// Registers are spreadsheets exported by regional fire services, one row per
// incident. Headers vary between regions and years ("Муниципальный район",
// "муниципальный  район ", "District"), numbers are often typed as text with a
// decimal comma, and coordinates arrive as one "a b" string in either axis
// order.
//
// # Normalization Stages
//
// Stages run once per upload, in order:
//
//	Reconcile            headers -> canonical columns, text defaults, year/month
//	NormalizeCasualties  six counters -> non-negative ints, totals
//	ResolveCoordinates   "a b" -> GeoPoint (or absent)
//	ClassifyCauses       cause-like columns -> merged text -> CauseCategory
//
// No stage fails. Anything unusable becomes a neutral value (0, "unspecified",
// absent point, default date marker) and is reported as a [Note] on the
// [Diagnostics] of the pass.
//
// # Numeric Cells
//
//	"3,0"  -> 3      decimal comma
//	" 2 "  -> 2
//	"1.9"  -> 1      truncated toward zero
//	"nan"  -> 0      blank markers: "", None, NaN, nan, null
//	"abc"  -> 0
//	"-4"   -> 0      counts are never negative
//
// Total deaths are adult plus child deaths; total injuries likewise.
//
// # Coordinates
//
// The two tokens a, b are read as (lat, lon) when a is within ±90 and b within
// ±180, otherwise as (lon, lat) when the reverse holds, otherwise the point is
// absent. When both readings are valid the first one wins:
//
//	"60.465566 131.090314" -> lat 60.465566, lon 131.090314
//	"131.090314 60.465566" -> lat 60.465566, lon 131.090314
//	"45 45"                -> lat 45 (first token)
//
// # Cause Taxonomy
//
// Every column whose name contains "причина", "cause" or "reason" is merged
// with "; ". The lowercased text is matched by substring against ordered
// keyword lists; the first category with a hit wins. Unmatched text longer
// than ten characters is Other, anything else Unspecified.
package domain
