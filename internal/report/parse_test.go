package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sznuper/updavail/internal/failure"
)

const aptOutput = `Reading package lists...
Building dependency tree...
Reading state information...
Calculating upgrade...
The following packages have been kept back:
  linux-generic linux-headers-generic
The following packages will be upgraded:
  curl libcurl4 openssl
3 upgraded, 1 newly installed, 0 to remove and 2 not upgraded.
Inst curl [7.81.0-1ubuntu1.15] (7.81.0-1ubuntu1.16 Ubuntu:22.04/jammy-updates [amd64])
`

func TestParse_Valid(t *testing.T) {
	r, err := Parse(aptOutput)
	require.NoError(t, err)
	assert.Equal(t, UpgradeReport{Upgrade: 3, Install: 1, Remove: 0, NotUpgraded: 2}, r)
	assert.Equal(t, 5, r.Upgradable())
}

func TestParse_Counts(t *testing.T) {
	tests := []struct {
		in   string
		want UpgradeReport
	}{
		{"0 upgraded, 0 newly installed, 0 to remove and 0 not upgraded.", UpgradeReport{}},
		{"5 upgraded, 0 newly installed, 1 to remove and 2 not upgraded.", UpgradeReport{5, 0, 1, 2}},
		{"prefix 120 upgraded, 7 newly installed, 3 to remove and 41 not upgraded. suffix", UpgradeReport{120, 7, 3, 41}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Upgrade+tt.want.NotUpgraded, got.Upgradable())
		})
	}
}

func TestParse_FirstMatchWins(t *testing.T) {
	in := "1 upgraded, 2 newly installed, 3 to remove and 4 not upgraded.\n" +
		"9 upgraded, 9 newly installed, 9 to remove and 9 not upgraded.\n"
	r, err := Parse(in)
	require.NoError(t, err)
	assert.Equal(t, UpgradeReport{1, 2, 3, 4}, r)
}

func TestParse_Missing(t *testing.T) {
	inputs := []string{
		"",
		"Reading package lists...\n",
		"3 upgraded, 1 newly installed, 0 to remove.",
		"3 upgraded, 1 newly installed, 0 to remove and 2 not upgraded",
		"-3 upgraded, 1 newly installed, x to remove and 2 not upgraded.",
		"3 mis à jour, 1 nouvellement installés, 0 à enlever et 2 non mis à jour.",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		require.Error(t, err, "input %q", in)
		assert.Equal(t, failure.Parse, failure.KindOf(err))
	}
}

func TestParse_MissingMessage(t *testing.T) {
	_, err := Parse("nothing here")
	assert.EqualError(t, err, "parse: pattern not found")
}

func TestParse_Overflow(t *testing.T) {
	_, err := Parse("99999999999999999999999 upgraded, 0 newly installed, 0 to remove and 0 not upgraded.")
	require.Error(t, err)
	assert.Equal(t, failure.Parse, failure.KindOf(err))
}
