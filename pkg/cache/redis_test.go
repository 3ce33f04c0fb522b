package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "sis:analytics:fees", Key("analytics", "fees"))
	assert.Equal(t, "sis:analytics:*", Key("analytics:", "", "*"))
	assert.Equal(t, "sis", Key())
}
