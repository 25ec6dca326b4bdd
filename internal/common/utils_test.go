package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("No results found.", "no results found"))
	assert.True(t, HasAny("status ZERO_RESULTS", "nothing", "zero_results"))
	assert.False(t, HasAny("Request denied.", "no results found", "zero_results"))
	assert.False(t, HasAny("anything"))
}
