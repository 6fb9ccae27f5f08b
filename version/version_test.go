package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion_Injected(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.3", "0123456789abcdef", "2026-01-02T03:04:05Z"

	assert.Equal(t, "v1.2.3", GetVersion())
	assert.Equal(t, "v1.2.3 (0123456, built 2026-01-02T03:04:05Z)", GetFullVersion())

	Date = "unknown"
	assert.Equal(t, "v1.2.3 (0123456)", GetFullVersion())

	Commit = "abc"
	assert.Equal(t, "v1.2.3", GetFullVersion(), "short commits are omitted")
}

func TestGetVersion_Fallback(t *testing.T) {
	oldV := Version
	t.Cleanup(func() { Version = oldV })

	Version = ""

	assert.NotEmpty(t, GetVersion())
}
