package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannerNamesTool(t *testing.T) {
	assert.Contains(t, Banner(), "TWINPICS")
}
