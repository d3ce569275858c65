package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origBuild := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = origVersion, origCommit, origBuild })

	Version, GitCommit, BuildTime = "dev", "abc123", "2024-01-01"
	assert.Equal(t, "dev (commit: abc123, built: 2024-01-01)", String())

	Version = "v1.2.0"
	assert.Equal(t, "v1.2.0 (commit: abc123, built: 2024-01-01)", String())
	assert.Equal(t, "v1.2.0", Short())
	assert.Equal(t, "SensorMerge/v1.2.0", UserAgent())
}
