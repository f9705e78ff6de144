package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	assert.Equal(t, "203.0.113.0/24", AnonymizeIP("203.0.113.77"))
	assert.Equal(t, "203.0.113.0/24", AnonymizeIP("::ffff:203.0.113.77"))
	assert.Equal(t, "2001:db8:1::/48", AnonymizeIP("2001:db8:1:2::5"))
	assert.Equal(t, "invalid", AnonymizeIP("global"))
	assert.Equal(t, "", AnonymizeIP(""))
}
