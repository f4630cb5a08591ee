package census

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// Classification is the result of the full ZIP → region lookup chain.
type Classification struct {
	ZipCode  string `json:"zip_code"`
	State    string `json:"state"`
	Division string `json:"division"`
	Region   string `json:"region"`
}

// Classifier resolves ZIP codes against a fixed set of tables.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	zips      []ZipRange
	divisions map[string]string
	regions   map[string]string
}

// New builds a Classifier over copies of the given tables.
// Range order is preserved: the first range containing a ZIP wins.
func New(zips []ZipRange, divisions, regions map[string]string) *Classifier {
	c := &Classifier{
		zips:      slices.Clone(zips),
		divisions: maps.Clone(divisions),
		regions:   maps.Clone(regions),
	}
	if c.divisions == nil {
		c.divisions = map[string]string{}
	}
	if c.regions == nil {
		c.regions = map[string]string{}
	}
	return c
}

var defaultClassifier = New(zipRanges, stateDivisions, divisionRegions)

// Default returns the classifier backed by the built-in Census tables.
func Default() *Classifier {
	return defaultClassifier
}

// State returns the state code for zip.
func (c *Classifier) State(zip string) (string, error) {
	prefix, err := zipPrefix(zip)
	if err != nil {
		return "", err
	}
	for _, r := range c.zips {
		if r.Contains(prefix) && r.State != "" {
			return r.State, nil
		}
	}
	return "", fmt.Errorf("%w: zip %s", ErrStateNotFound, zip)
}

// Division returns the Census division for zip.
func (c *Classifier) Division(zip string) (string, error) {
	state, err := c.State(zip)
	if err != nil {
		return "", err
	}
	division, ok := c.divisions[state]
	if !ok {
		return "", fmt.Errorf("%w: state %s", ErrDivisionNotFound, state)
	}
	return division, nil
}

// Region returns the Census region for zip.
func (c *Classifier) Region(zip string) (string, error) {
	division, err := c.Division(zip)
	if err != nil {
		return "", err
	}
	return c.regionOf(division)
}

// Classify runs the whole chain and returns every stage of the result.
func (c *Classifier) Classify(zip string) (Classification, error) {
	state, err := c.State(zip)
	if err != nil {
		return Classification{}, err
	}
	division, ok := c.divisions[state]
	if !ok {
		return Classification{}, fmt.Errorf("%w: state %s", ErrDivisionNotFound, state)
	}
	region, err := c.regionOf(division)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		ZipCode:  zip,
		State:    state,
		Division: division,
		Region:   region,
	}, nil
}

func (c *Classifier) regionOf(division string) (string, error) {
	region, ok := c.regions[division]
	if !ok {
		return "", fmt.Errorf("%w: division %s", ErrRegionNotFound, division)
	}
	return region, nil
}

// CheckReadiness reports an error when the classifier has no ZIP ranges.
func (c *Classifier) CheckReadiness(_ context.Context) error {
	if len(c.zips) == 0 {
		return errors.New("zip table is empty")
	}
	return nil
}

// Finding describes a gap between two tables.
type Finding struct {
	Table string // "divisions" or "regions"
	Key   string // state code or division name with no entry
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: no entry for %q", f.Table, f.Key)
}

// Audit lists states in the ZIP table with no division and divisions with no
// region. Findings are sorted by table, then key.
func (c *Classifier) Audit() []Finding {
	seen := make(map[Finding]bool)
	var findings []Finding
	add := func(f Finding) {
		if !seen[f] {
			seen[f] = true
			findings = append(findings, f)
		}
	}

	for _, r := range c.zips {
		if r.State == "" {
			continue
		}
		if _, ok := c.divisions[r.State]; !ok {
			add(Finding{Table: "divisions", Key: r.State})
		}
	}
	for _, division := range c.divisions {
		if _, ok := c.regions[division]; !ok {
			add(Finding{Table: "regions", Key: division})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Table != findings[j].Table {
			return findings[i].Table < findings[j].Table
		}
		return findings[i].Key < findings[j].Key
	})
	return findings
}

// ZipToState returns the state code for zip using the built-in tables.
func ZipToState(zip string) (string, error) {
	return defaultClassifier.State(zip)
}

// ZipToDivision returns the Census division for zip using the built-in tables.
func ZipToDivision(zip string) (string, error) {
	return defaultClassifier.Division(zip)
}

// ZipToRegion returns the Census region for zip using the built-in tables.
func ZipToRegion(zip string) (string, error) {
	return defaultClassifier.Region(zip)
}

// Classify runs the full lookup chain using the built-in tables.
func Classify(zip string) (Classification, error) {
	return defaultClassifier.Classify(zip)
}
