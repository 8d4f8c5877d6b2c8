package updater

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"v1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{"", ""},
		{"v", ""},
		{"vv1.0.0", "v1.0.0"}, // only strips one leading v
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeVersion(tt.input), "input %q", tt.input)
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "0.2.0", "0.2.1", true},
		{"newer minor", "0.2.0", "0.3.0", true},
		{"newer major", "0.2.0", "1.0.0", true},
		{"same version", "0.2.0", "0.2.0", false},
		{"older version", "0.3.0", "0.2.0", false},
		{"empty current", "", "0.2.0", false},
		{"empty latest", "0.2.0", "", false},
		{"dev never updates", "dev", "0.2.0", false},
		{"two part current", "0.2", "0.3.0", true},
		{"two part latest", "0.2.0", "0.3", true},
		{"major jump", "1.9.9", "2.0.0", true},
		{"minor jump", "0.9.0", "0.10.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNewer(tt.current, tt.latest))
		})
	}
}

func TestParseIntSafe(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"0", 0},
		{"42", 42},
		{"", 0},
		{"abc", 0},
		{"3rc1", 3}, // stops at the first non-digit
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseIntSafe(tt.input), "input %q", tt.input)
	}
}

func TestBuildAssetName(t *testing.T) {
	wantExt := "tar.gz"
	if runtime.GOOS == "windows" {
		wantExt = "zip"
	}
	want := "sensei_0.3.0_" + runtime.GOOS + "_" + runtime.GOARCH + "." + wantExt

	assert.Equal(t, want, buildAssetName("0.3.0"))
}

// newReleaseServer serves a fake GitHub release payload and redirects the
// package at it for the duration of the test.
func newReleaseServer(t *testing.T, release ReleaseInfo, statusCode int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(statusCode)
		if statusCode == http.StatusOK {
			require.NoError(t, json.NewEncoder(w).Encode(release))
		}
	}))
	t.Cleanup(ts.Close)
	pointAt(t, ts)
	return ts
}

func pointAt(t *testing.T, ts *httptest.Server) {
	t.Helper()
	origEndpoint, origClient := releaseEndpoint, httpClient
	releaseEndpoint, httpClient = ts.URL, ts.Client()
	t.Cleanup(func() {
		releaseEndpoint, httpClient = origEndpoint, origClient
	})
}

func TestCheckVersionUpdateAvailable(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{
		TagName: "v0.3.0",
		HTMLURL: "https://github.com/sensei-mcp/sensei/releases/tag/v0.3.0",
	}, http.StatusOK)

	result := CheckVersion("v0.2.0")

	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "0.3.0", result.LatestVersion)
	assert.Equal(t, "0.2.0", result.CurrentVersion)
	assert.Equal(t, "https://github.com/sensei-mcp/sensei/releases/tag/v0.3.0", result.ReleaseURL)
}

func TestCheckVersionAlreadyLatest(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{TagName: "v0.2.0"}, http.StatusOK)

	assert.False(t, CheckVersion("v0.2.0").UpdateAvailable)
}

func TestCheckVersionNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	pointAt(t, ts)
	ts.Close()

	result := CheckVersion("v0.2.0")

	assert.False(t, result.UpdateAvailable, "network failures stay silent")
	assert.Equal(t, "0.2.0", result.CurrentVersion)
}

func TestCheckVersionAPIError(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{}, http.StatusForbidden)

	assert.False(t, CheckVersion("v0.2.0").UpdateAvailable)
}

func TestCheckVersionDevBuild(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{TagName: "v0.3.0"}, http.StatusOK)

	assert.False(t, CheckVersion("dev").UpdateAvailable, "dev builds never report updates")
}

// buildTarGz packs content as a file named "sensei" in a tar.gz archive.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Mode: 0o755,
		Size: int64(len(content)),
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())

	return buf.Bytes()
}

func TestExtractFromTarGz(t *testing.T) {
	content := []byte("#!/bin/sh\necho hello\n")
	archive := buildTarGz(t, "sensei", content)

	data, err := extractFromTarGz(bytes.NewReader(archive))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestExtractFromTarGzBinaryMissing(t *testing.T) {
	archive := buildTarGz(t, "README.md", []byte("not a binary"))

	_, err := extractFromTarGz(bytes.NewReader(archive))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in archive")
}

func TestSelfUpdateAlreadyLatest(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{TagName: "v0.2.0"}, http.StatusOK)

	err := SelfUpdate("v0.2.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already at latest version")
}

func TestSelfUpdateAPIError(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{}, http.StatusInternalServerError)

	require.Error(t, SelfUpdate("v0.2.0"))
}

func TestSelfUpdateNoMatchingAsset(t *testing.T) {
	newReleaseServer(t, ReleaseInfo{
		TagName: "v0.3.0",
		Assets: []Asset{
			{Name: "sensei_0.3.0_solaris_sparc.tar.gz", BrowserDownloadURL: "https://example.com/nope"},
		},
	}, http.StatusOK)

	err := SelfUpdate("v0.2.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no release asset")
}
