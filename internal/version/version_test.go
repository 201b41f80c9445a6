package version

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetUsesLinkerValues(t *testing.T) {
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime })

	Version = "v1.2.3"
	GitCommit = "0123456789abcdef"
	BuildTime = "2024-05-01T10:00:00Z"

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), info.BuildTime.UTC())
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.True(t, info.IsRelease())
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.0.0", GitCommit: "abcdef0123"}, "v1.0.0 (abcdef0)"},
		{Info{Version: "dev", GitCommit: "abcdef0123"}, "dev-abcdef0"},
		{Info{Version: "v1.0.0", GitCommit: "unknown"}, "v1.0.0"},
		{Info{Version: "dev", GitCommit: "abc"}, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Short())
		})
	}
}

func TestString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abcdef0",
		Dirty:     true,
		BuildTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		GoVersion: "go1.24.4",
		Platform:  "linux/amd64",
	}
	assert.Equal(t, "Version: v1.0.0\nCommit: abcdef0 (dirty)\nBuilt: 2024-01-02T03:04:05Z\nGo: go1.24.4\nPlatform: linux/amd64", info.String())

	bare := Info{Version: "dev", GitCommit: "unknown", GoVersion: "go1.24.4", Platform: "linux/amd64"}
	assert.Equal(t, "Version: dev\nGo: go1.24.4\nPlatform: linux/amd64", bare.String())
	assert.False(t, bare.IsRelease())
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("unknown").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
	assert.Equal(t, 2024, parseTime("2024-03-04 05:06:07").Year())
	assert.Equal(t, 2024, parseTime("2024-03-04T05:06:07").Year())
}
