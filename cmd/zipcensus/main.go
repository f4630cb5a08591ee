// Command zipcensus prints the Census Bureau state, division, and region
// for each ZIP code given on the command line.
//
// Usage:
//
//	zipcensus 99950 00501-4412
//	zipcensus -json 99950
//	zipcensus -audit
//
// Lookups that fail are reported on stderr and make the command exit 1.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/zip-census/internal/census"
)

func main() {
	asJSON := flag.Bool("json", false, "print one JSON object per ZIP code")
	audit := flag.Bool("audit", false, "list states without a division and divisions without a region")
	flag.Parse()

	if !*audit && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(os.Stdout, os.Stderr, census.Default(), flag.Args(), *asJSON, *audit))
}

func run(stdout, stderr io.Writer, c *census.Classifier, zips []string, asJSON, audit bool) int {
	if audit {
		for _, f := range c.Audit() {
			fmt.Fprintln(stdout, f)
		}
	}

	code := 0
	enc := json.NewEncoder(stdout)
	for _, zip := range zips {
		result, err := c.Classify(zip)
		if err != nil {
			fmt.Fprintf(stderr, "%s error: %v\n", zip, err)
			code = 1
			continue
		}
		if asJSON {
			if err := enc.Encode(result); err != nil {
				fmt.Fprintf(stderr, "%s error: %v\n", zip, err)
				code = 1
			}
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", result.ZipCode, result.State, result.Division, result.Region)
	}
	return code
}
