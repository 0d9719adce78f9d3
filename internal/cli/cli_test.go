package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.frenchanime.com"

var pages = map[string]string{
	base + "/":                              `<html><body><p>Accueil</p></body></html>`,
	base + "/animes-vf/":                    `<div class="mov clearfix"><img src="/a.jpg" alt="Naruto wiflix"><a href="/animes-vf/1-naruto.html">Naruto</a></div>`,
	base + "/animes-vf/1-naruto.html":       `<div class="eps" style="display: none">1!//vidmoly.to/embed-abc123.html,//voe.sx/e/abc 2!//vidmoly.to/embed-def.html</div>`,
	"https://vidmoly.net/embed-abc123.html": `sources: [{file:"https://cdn.example/video.mp4,","label":"HD"}]`,
	"https://vidmoly.net/embed-gone.html":   `<html>File was deleted</html>`,

	config.DefaultDarkiURL + "/api/v1/download/42":    `{"video":{"lien":"https://1fichier.com/?xyz","qual":{"qual":"720p"},"langues":[{"lang":"VF"},{"lang":"VOSTFR"}]}}`,
	"https://darki.mirror.example/api/v1/download/42": `{"video":{"lien":"https://1fichier.com/?mirror","langues":[]}}`,
}

// run executes the root command with fresh flag state and an isolated home
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", "")

	debug, jsonOutput, baseURL, visible = false, false, "", false
	animesPage = 1
	extractExplain, extractHoster = false, false
	hostersSource = ""
	darkiMirror = ""
	sitesFile = filepath.Join(t.TempDir(), "sites.yml")
	fetchOptions = []fetch.Option{fetch.WithTransport(fetch.Pages(pages))}
	t.Cleanup(func() { fetchOptions = nil })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "animelink v"+version.Version)
}

func TestExtract(t *testing.T) {
	out, err := run(t, "extract", "--json", "https://vidmoly.to/embed-abc123.html")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "https://cdn.example/video.mp4", res["url"])
	assert.Equal(t, "kodi_pattern", res["method"])
}

func TestExtractExplain(t *testing.T) {
	out, err := run(t, "extract", "--explain", "https://vidmoly.to/embed-abc123.html")

	require.NoError(t, err)
	assert.Contains(t, out, "https://cdn.example/video.mp4")
	assert.Contains(t, out, "Selector")
	assert.Contains(t, out, "vidmoly")
}

func TestExtractFailure(t *testing.T) {
	out, err := run(t, "extract", "https://vidmoly.net/embed-gone.html")

	require.Error(t, err)
	assert.Contains(t, out, "not_found")
}

func TestAnimes(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "Category", args: []string{"animes", "vf"}, want: "Naruto"},
		{name: "Default category", args: []string{"animes"}, want: "0 result(s)"},
		{name: "Unknown category", args: []string{"animes", "manga"}, wantErr: true},
		{name: "Bad page", args: []string{"animes", "vf", "--page", "0"}, wantErr: true},
		{name: "Upstream failure", args: []string{"animes", "films"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSearchTooShort(t *testing.T) {
	_, err := run(t, "search", "a")

	assert.Error(t, err)
}

func TestEpisodes(t *testing.T) {
	out, err := run(t, "episodes", "--json", base+"/animes-vf/1-naruto.html")
	require.NoError(t, err)

	var episodes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &episodes), out)
	require.Len(t, episodes, 3)
	assert.Equal(t, "1", episodes[0]["episode"])
	assert.Equal(t, "vidmoly", episodes[0]["host"])
}

func TestGenresFallback(t *testing.T) {
	out, err := run(t, "genres", "--json")
	require.NoError(t, err)

	var genres []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &genres), out)
	assert.Len(t, genres, 10)
}

func TestHostersStatus(t *testing.T) {
	out, err := run(t, "hosters", "status", "--json")
	require.NoError(t, err)

	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &st), out)
	assert.Equal(t, true, st["ready"])
	assert.Equal(t, float64(12), st["rules_count"])
}

func TestHostersSyncNeedsSource(t *testing.T) {
	_, err := run(t, "hosters", "sync")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--source")
}

func TestHostersSyncFromSource(t *testing.T) {
	_, err := run(t, "hosters", "sync", "--source", "https://rules.example/missing.yml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://rules.example/missing.yml")
}

func TestDarki(t *testing.T) {
	out, err := run(t, "darki", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "https://1fichier.com/?xyz")
	assert.Contains(t, out, "720p")
	assert.Contains(t, out, "VF, VOSTFR")

	out, err = run(t, "darki", "--json", "--mirror", "https://darki.mirror.example/", "42")
	require.NoError(t, err)
	var link map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &link), out)
	assert.Equal(t, "https://1fichier.com/?mirror", link["url"])
	assert.Equal(t, "https://darki.mirror.example/download/42", link["headers"].(map[string]any)["Referer"])

	_, err = run(t, "darki", "41")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	out, err := run(t, "init")
	require.NoError(t, err)

	path := filepath.Join(os.Getenv("HOME"), ".config", config.AppDirName, config.ConfigFileName)
	assert.Contains(t, out, path)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, cfg.Site.BaseURL)
}

func TestSites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yml")

	out, err := run(t, "sites", "list", "--sites", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No sites configured")

	_, err = run(t, "sites", "add", "Vidoza.net", "mp4", "--sites", path)
	require.NoError(t, err)
	_, err = run(t, "sites", "add", "vidoza.net", "--sites", path)
	assert.Error(t, err, "duplicate site")

	sites, err := config.LoadSites(path)
	require.NoError(t, err)
	require.Len(t, sites.Sites, 1)
	assert.Equal(t, "vidoza.net", sites.Sites[0].Match)
	assert.Equal(t, "mp4", sites.Sites[0].Type)

	_, err = run(t, "sites", "remove", "Vidoza.net", "--sites", path)
	require.NoError(t, err)
	_, err = run(t, "sites", "remove", "vidoza.net", "--sites", path)
	assert.Error(t, err)
}

func TestConfigSetGet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "Port", key: "server.port", value: "9000"},
		{name: "Sync on start", key: "hosters.sync_on_start", value: "true"},
		{name: "Timeout", key: "http.timeout", value: "30s"},
		{name: "Bad port", key: "server.port", value: "nope", wantErr: true},
		{name: "Bad duration", key: "http.timeout", value: "soon", wantErr: true},
		{name: "Unknown key", key: "language", value: "fr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := setConfigValue(cfg, tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := getConfigValue(cfg, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestConfigKeysAreReadable(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, key := range configKeys {
		_, err := getConfigValue(cfg, key)
		assert.NoError(t, err, key)
	}
}

func TestCompleteConfigKey(t *testing.T) {
	got, _ := completeConfigKey(configGetCmd, nil, "hosters.")

	assert.Equal(t, []string{"hosters.cache_dir", "hosters.source_url", "hosters.sync_on_start"}, got)
}
