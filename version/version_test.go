package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	v, c, b, bt, g := Version, GitCommit, GitBranch, BuildTime, GoVersion
	t.Cleanup(func() { Version, GitCommit, GitBranch, BuildTime, GoVersion = v, c, b, bt, g })
	Version, GitCommit, GitBranch, BuildTime, GoVersion = version, commit, "", buildTime, ""
}

func TestGetVersionInfo(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildTime string
		release   bool
		year      int
	}{
		{"development build", "dev", "", false, 0},
		{"release", "1.4.0", "2025-03-02T08:00:00Z", true, 2025},
		{"dirty tree", "1.4.0-dirty", "", false, 0},
		{"unparseable build time", "1.4.0", "yesterday", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.version, "abc1234", tt.buildTime)

			info := GetVersionInfo()
			if info.Version != tt.version || info.IsRelease != tt.release {
				t.Errorf("got version %q release %v", info.Version, info.IsRelease)
			}
			if info.GitCommit != "abc1234" {
				t.Errorf("linker commit must win, got %q", info.GitCommit)
			}
			if info.BuildDate.IsZero() || info.GoVersion == "" {
				t.Errorf("build date and go version are always filled: %+v", info)
			}
			if tt.year != 0 && info.BuildDate.Year() != tt.year {
				t.Errorf("build year = %d, want %d", info.BuildDate.Year(), tt.year)
			}
		})
	}
}

func TestApplyBuildInfo(t *testing.T) {
	info := &Info{}
	info.applyBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2025-06-01T12:00:00Z"},
		},
	})
	if info.GitCommit != "0123456" || !info.IsDirty || info.GoVersion != "go1.26.0" || info.BuildTime != "2025-06-01T12:00:00Z" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestUserAgent(t *testing.T) {
	stamp(t, "2.1.0", "abc1234", "")
	if ua := UserAgent(); !strings.HasPrefix(ua, "scribe/2.1.0-abc1234") {
		t.Errorf("unexpected user agent %q", ua)
	}

	stamp(t, "dev", "", "")
	if ua := UserAgent(); !strings.HasPrefix(ua, "scribe/dev") {
		t.Errorf("unexpected user agent %q", ua)
	}
}

func TestInfoFields(t *testing.T) {
	stamp(t, "2.1.0", "abc1234", "")
	f := GetVersionInfo().Fields()
	if f["version"] != "2.1.0" || f["git_commit"] != "abc1234" {
		t.Errorf("unexpected fields %v", f)
	}
	if _, ok := f["go_version"]; !ok {
		t.Error("expected go_version field")
	}
}
