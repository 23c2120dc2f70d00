package pep592_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/wheelresolver/pkg/python/pep503"
	"github.com/datawire/wheelresolver/pkg/python/pep592"
)

func TestUsable(t *testing.T) {
	t.Parallel()
	var plain, yanked, yankedReason pep503.FileLink
	plain.DataAttrs = map[string]string{}
	yanked.DataAttrs = map[string]string{"data-yanked": ""}
	yankedReason.DataAttrs = map[string]string{"data-yanked": "broken metadata"}

	assert.False(t, pep592.IsYanked(plain))
	assert.True(t, pep592.IsYanked(yanked))
	assert.Equal(t, "broken metadata", pep592.YankReason(yankedReason))

	assert.True(t, pep592.Usable(plain, false))
	assert.False(t, pep592.Usable(yanked, false))
	assert.True(t, pep592.Usable(yanked, true))
}
