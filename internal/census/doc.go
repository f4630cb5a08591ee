// Package census maps United States ZIP codes to Census Bureau geographic
// classifications.
//
// # Lookup Chain
//
// A lookup runs in three stages over static tables compiled into the binary:
//
//	ZIP prefix  →  state code  →  division  →  region
//	"00501"     →  "NY"        →  "Middle Atlantic"  →  "Northeast"
//
// Only the 5-digit prefix of a ZIP+4 code takes part in the match; the
// "-NNNN" suffix is validated and then ignored.
//
// # ZIP Ranges
//
// The ZIP table is an ordered slice of inclusive ranges. The first range
// containing the prefix wins. Single-ZIP exceptions that sit inside another
// state's span (the IRS ZIPs 00501 and 00544 in Holtsville, NY, or Fishers
// Island, NY at 06390 inside Connecticut) are listed before the span that
// encloses them.
//
// # Divisions and Regions
//
// The Census Bureau groups the 50 states and the District of Columbia into
// nine divisions and four regions:
//
//	Northeast: New England, Middle Atlantic
//	Midwest:   East North Central, West North Central
//	South:     South Atlantic, East South Central, West South Central
//	West:      Mountain, Pacific
//
// Territories and freely associated states (PR, VI, GU, AS, MP, FM, MH, PW)
// and military ZIPs (AA, AE, AP) resolve to
// a state code but belong to no division, so their lookups fail with
// [ErrDivisionNotFound]. [Classifier.Audit] lists such gaps.
package census
