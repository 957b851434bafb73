package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyCallSiteRegistry(t *testing.T) {
	RegisterLegacyCallSite("zz_test.Last")
	RegisterLegacyCallSite("aa_test.First")
	RegisterLegacyCallSite("aa_test.First") // duplicate registration is a no-op

	sites := LegacyCallSites()

	first, last := -1, -1
	for i, s := range sites {
		switch s {
		case "aa_test.First":
			assert.Equal(t, -1, first, "duplicate entry")
			first = i
		case "zz_test.Last":
			last = i
		}
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, last, first, "sites must be sorted")
}
