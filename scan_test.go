package sitelinks_test

import (
	"testing"

	"github.com/noteandcode/sitelinks"
	"github.com/stretchr/testify/assert"
)

func TestScan_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sitelinks.EINVALID, sitelinks.ErrorCode((&sitelinks.Scan{}).Validate()))
	assert.NoError(t, (&sitelinks.Scan{URL: "http://example.com"}).Validate())
}

func TestScan_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&sitelinks.Scan{}).Empty())
	assert.False(t, (&sitelinks.Scan{Roots: []string{"https://foo.com/"}}).Empty())
}

func TestHashRoots(t *testing.T) {
	t.Parallel()

	a := sitelinks.HashRoots([]string{"https://a.io/", "https://b.io/"})
	b := sitelinks.HashRoots([]string{"https://a.io/", "https://b.io/"})
	c := sitelinks.HashRoots([]string{"https://a.io/"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEmpty(t, sitelinks.HashRoots(nil))
}
