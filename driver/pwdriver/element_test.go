package pwdriver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
)

func TestReadTimeout(t *testing.T) {
	interval := driver.PollInterval
	t.Cleanup(func() { driver.PollInterval = interval })

	driver.PollInterval = 250 * time.Millisecond
	timeout := readTimeout()
	require.NotNil(t, timeout)
	assert.Equal(t, 250.0, *timeout)

	driver.PollInterval = 0
	assert.Equal(t, 50.0, *readTimeout(), "never zero")
}
