package runid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-argmin/argmin/runid"
)

func TestNewReturnsDistinctParsableIDs(t *testing.T) {
	a := runid.New()
	b := runid.New()

	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a.String())
	assert.Len(t, a.String(), 36)
}
