// Package report extracts the upgrade summary from dry-run output.
package report

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sznuper/updavail/internal/failure"
)

// UpgradeReport is the four-count summary printed by apt-get.
type UpgradeReport struct {
	Upgrade     int
	Install     int
	Remove      int
	NotUpgraded int
}

// Upgradable is the number of packages with a newer version available,
// whether or not the upgrade would install them.
func (r UpgradeReport) Upgradable() int {
	return r.Upgrade + r.NotUpgraded
}

// summary is the apt-get sentence under the C locale. A change in apt's
// wording is a change to this contract, not something to guess around.
var summary = regexp.MustCompile(`([0-9]+) upgraded, ([0-9]+) newly installed, ([0-9]+) to remove and ([0-9]+) not upgraded\.`)

// Parse searches out for the summary sentence. Either all four counts are
// returned or a failure.Parse error.
func Parse(out string) (UpgradeReport, error) {
	m := summary.FindStringSubmatch(out)
	if m == nil {
		return UpgradeReport{}, failure.Newf(failure.Parse, "parse", "pattern not found")
	}

	var counts [4]int
	for i := range counts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return UpgradeReport{}, failure.New(failure.Parse, "parse", fmt.Errorf("count %q: %w", m[i+1], err))
		}
		counts[i] = n
	}

	return UpgradeReport{
		Upgrade:     counts[0],
		Install:     counts[1],
		Remove:      counts[2],
		NotUpgraded: counts[3],
	}, nil
}
