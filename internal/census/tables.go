package census

import (
	"maps"
	"slices"
)

// ZipRange maps an inclusive span of 5-digit ZIP prefixes to a state code.
type ZipRange struct {
	Low   int
	High  int
	State string
}

// Contains reports whether prefix falls inside the range.
func (r ZipRange) Contains(prefix int) bool {
	return prefix >= r.Low && prefix <= r.High
}

// zipRanges is ordered: exceptions precede the span that encloses them.
var zipRanges = []ZipRange{
	// IRS and island exceptions inside other spans.
	{Low: 501, High: 501, State: "NY"},
	{Low: 544, High: 544, State: "NY"},
	{Low: 5501, High: 5544, State: "MA"},
	{Low: 6390, High: 6390, State: "NY"},
	{Low: 34001, High: 34099, State: "AA"},
	{Low: 96799, High: 96799, State: "AS"},

	{Low: 601, High: 799, State: "PR"},
	{Low: 801, High: 899, State: "VI"},
	{Low: 900, High: 999, State: "PR"},
	{Low: 1001, High: 2799, State: "MA"},
	{Low: 2801, High: 2999, State: "RI"},
	{Low: 3001, High: 3899, State: "NH"},
	{Low: 3901, High: 4999, State: "ME"},
	{Low: 5001, High: 5999, State: "VT"},
	{Low: 6001, High: 6999, State: "CT"},
	{Low: 7001, High: 8999, State: "NJ"},
	{Low: 9001, High: 9999, State: "AE"},
	{Low: 10001, High: 14999, State: "NY"},
	{Low: 15001, High: 19699, State: "PA"},
	{Low: 19701, High: 19999, State: "DE"},
	{Low: 20001, High: 20099, State: "DC"},
	{Low: 20101, High: 20199, State: "VA"},
	{Low: 20201, High: 20599, State: "DC"},
	{Low: 20601, High: 21999, State: "MD"},
	{Low: 22001, High: 24699, State: "VA"},
	{Low: 24701, High: 26999, State: "WV"},
	{Low: 27001, High: 28999, State: "NC"},
	{Low: 29001, High: 29999, State: "SC"},
	{Low: 30001, High: 31999, State: "GA"},
	{Low: 32001, High: 34999, State: "FL"},
	{Low: 35001, High: 36999, State: "AL"},
	{Low: 37001, High: 38599, State: "TN"},
	{Low: 38601, High: 39799, State: "MS"},
	{Low: 39801, High: 39999, State: "GA"},
	{Low: 40001, High: 42799, State: "KY"},
	{Low: 43001, High: 45999, State: "OH"},
	{Low: 46001, High: 47999, State: "IN"},
	{Low: 48001, High: 49999, State: "MI"},
	{Low: 50001, High: 52899, State: "IA"},
	{Low: 53001, High: 54999, State: "WI"},
	{Low: 55001, High: 56799, State: "MN"},
	{Low: 57001, High: 57799, State: "SD"},
	{Low: 58001, High: 58899, State: "ND"},
	{Low: 59001, High: 59999, State: "MT"},
	{Low: 60001, High: 62999, State: "IL"},
	{Low: 63001, High: 65899, State: "MO"},
	{Low: 66001, High: 67999, State: "KS"},
	{Low: 68001, High: 69399, State: "NE"},
	{Low: 70001, High: 71499, State: "LA"},
	{Low: 71601, High: 72999, State: "AR"},
	{Low: 73001, High: 73199, State: "OK"},
	{Low: 73301, High: 73301, State: "TX"},
	{Low: 73401, High: 74999, State: "OK"},
	{Low: 75001, High: 79999, State: "TX"},
	{Low: 80001, High: 81699, State: "CO"},
	{Low: 82001, High: 83199, State: "WY"},
	{Low: 83201, High: 83899, State: "ID"},
	{Low: 84001, High: 84799, State: "UT"},
	{Low: 85001, High: 86599, State: "AZ"},
	{Low: 87001, High: 88499, State: "NM"},
	{Low: 88501, High: 88599, State: "TX"},
	{Low: 88901, High: 89899, State: "NV"},
	{Low: 90001, High: 96199, State: "CA"},
	{Low: 96201, High: 96699, State: "AP"},
	{Low: 96701, High: 96899, State: "HI"},
	{Low: 96910, High: 96932, State: "GU"},
	{Low: 96940, High: 96940, State: "PW"},
	{Low: 96941, High: 96944, State: "FM"},
	{Low: 96950, High: 96952, State: "MP"},
	{Low: 96960, High: 96970, State: "MH"},
	{Low: 97001, High: 97999, State: "OR"},
	{Low: 98001, High: 99499, State: "WA"},
	{Low: 99501, High: 99950, State: "AK"},
}

// stateDivisions assigns the 50 states and DC to Census divisions.
var stateDivisions = map[string]string{
	"CT": DivisionNewEngland,
	"ME": DivisionNewEngland,
	"MA": DivisionNewEngland,
	"NH": DivisionNewEngland,
	"RI": DivisionNewEngland,
	"VT": DivisionNewEngland,

	"NJ": DivisionMiddleAtlantic,
	"NY": DivisionMiddleAtlantic,
	"PA": DivisionMiddleAtlantic,

	"IL": DivisionEastNorthCentral,
	"IN": DivisionEastNorthCentral,
	"MI": DivisionEastNorthCentral,
	"OH": DivisionEastNorthCentral,
	"WI": DivisionEastNorthCentral,

	"IA": DivisionWestNorthCentral,
	"KS": DivisionWestNorthCentral,
	"MN": DivisionWestNorthCentral,
	"MO": DivisionWestNorthCentral,
	"NE": DivisionWestNorthCentral,
	"ND": DivisionWestNorthCentral,
	"SD": DivisionWestNorthCentral,

	"DE": DivisionSouthAtlantic,
	"DC": DivisionSouthAtlantic,
	"FL": DivisionSouthAtlantic,
	"GA": DivisionSouthAtlantic,
	"MD": DivisionSouthAtlantic,
	"NC": DivisionSouthAtlantic,
	"SC": DivisionSouthAtlantic,
	"VA": DivisionSouthAtlantic,
	"WV": DivisionSouthAtlantic,

	"AL": DivisionEastSouthCentral,
	"KY": DivisionEastSouthCentral,
	"MS": DivisionEastSouthCentral,
	"TN": DivisionEastSouthCentral,

	"AR": DivisionWestSouthCentral,
	"LA": DivisionWestSouthCentral,
	"OK": DivisionWestSouthCentral,
	"TX": DivisionWestSouthCentral,

	"AZ": DivisionMountain,
	"CO": DivisionMountain,
	"ID": DivisionMountain,
	"MT": DivisionMountain,
	"NV": DivisionMountain,
	"NM": DivisionMountain,
	"UT": DivisionMountain,
	"WY": DivisionMountain,

	"AK": DivisionPacific,
	"CA": DivisionPacific,
	"HI": DivisionPacific,
	"OR": DivisionPacific,
	"WA": DivisionPacific,
}

var divisionRegions = map[string]string{
	DivisionNewEngland:       RegionNortheast,
	DivisionMiddleAtlantic:   RegionNortheast,
	DivisionEastNorthCentral: RegionMidwest,
	DivisionWestNorthCentral: RegionMidwest,
	DivisionSouthAtlantic:    RegionSouth,
	DivisionEastSouthCentral: RegionSouth,
	DivisionWestSouthCentral: RegionSouth,
	DivisionMountain:         RegionWest,
	DivisionPacific:          RegionWest,
}

// Census division names.
const (
	DivisionNewEngland       = "New England"
	DivisionMiddleAtlantic   = "Middle Atlantic"
	DivisionEastNorthCentral = "East North Central"
	DivisionWestNorthCentral = "West North Central"
	DivisionSouthAtlantic    = "South Atlantic"
	DivisionEastSouthCentral = "East South Central"
	DivisionWestSouthCentral = "West South Central"
	DivisionMountain         = "Mountain"
	DivisionPacific          = "Pacific"
)

// Census region names.
const (
	RegionNortheast = "Northeast"
	RegionMidwest   = "Midwest"
	RegionSouth     = "South"
	RegionWest      = "West"
)

// ZipRanges returns a copy of the built-in ZIP table.
func ZipRanges() []ZipRange {
	return slices.Clone(zipRanges)
}

// StateDivisions returns a copy of the built-in state→division table.
func StateDivisions() map[string]string {
	return maps.Clone(stateDivisions)
}

// DivisionRegions returns a copy of the built-in division→region table.
func DivisionRegions() map[string]string {
	return maps.Clone(divisionRegions)
}
