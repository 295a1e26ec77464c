package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dropwatch/internal/registry"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func TestLoad_BuiltinsPresent(t *testing.T) {
	r := registry.Load(context.Background(), "")

	entry, err := r.Resolve("example.com")
	require.NoError(t, err)
	require.Equal(t, ".com", entry.TLD)
	require.Equal(t, "whois.verisign-grs.com", entry.Server)
	require.Equal(t, "No match for", entry.Pattern)

	require.NotEmpty(t, r.Entries())
}

func TestLoad_MissingStoreIsFine(t *testing.T) {
	r := registry.Load(context.Background(), filepath.Join(t.TempDir(), "does", "not", "exist"))

	_, err := r.Resolve("example.com")
	require.NoError(t, err)
}

func TestLoad_UserStoreMergesLastWins(t *testing.T) {
	store := filepath.Join(t.TempDir(), "tlds")
	content := strings.Join([]string{
		"# personal overrides",
		"",
		".com|whois.example.org|better pattern",
		"test|whois.test.example|not found",
		"broken line without separators",
		".bad tld|whois.example.org|x",
		".ok|whois.example.org|(unclosed",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(store, []byte(content), 0o644))

	r := registry.Load(context.Background(), store)

	// user entry overrides the builtin
	entry, err := r.Resolve("example.com")
	require.NoError(t, err)
	require.Equal(t, "whois.example.org", entry.Server)
	require.Equal(t, "better pattern", entry.Pattern)

	// tld without a leading dot is normalized
	entry, err = r.Resolve("sub.test")
	require.NoError(t, err)
	require.Equal(t, ".test", entry.TLD)
	require.Equal(t, "whois.test.example", entry.Server)

	// malformed and invalid lines are skipped, not fatal
	_, err = r.Resolve("x.ok")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestResolve(t *testing.T) {
	r := registry.Load(context.Background(), "")

	tests := []struct {
		name    string
		input   string
		wantTLD string
		wantErr bool
	}{
		{name: "plain domain", input: "example.com", wantTLD: ".com"},
		{name: "subdomain", input: "deep.sub.example.net", wantTLD: ".net"},
		{name: "uppercase", input: "EXAMPLE.ORG", wantTLD: ".org"},
		{name: "scheme prefix ignored", input: "https://example.io", wantTLD: ".io"},
		{name: "path suffix ignored", input: "example.de/some/path", wantTLD: ".de"},
		{name: "scheme and path", input: "http://example.co/x", wantTLD: ".co"},
		{name: "unknown tld", input: "example.unknowntld", wantErr: true},
		{name: "no dot at all", input: "localhost", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := r.Resolve(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, serrors.ErrNotFound)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantTLD, entry.TLD)
		})
	}
}

func TestAdd_Validation(t *testing.T) {
	r := registry.Load(context.Background(), filepath.Join(t.TempDir(), "tlds"))

	tests := []struct {
		name    string
		tld     string
		server  string
		pattern string
	}{
		{name: "tld with dot inside", tld: ".co.uk", server: "whois.nic.uk", pattern: "No match"},
		{name: "tld with underscore", tld: ".my_tld", server: "whois.nic.uk", pattern: "No match"},
		{name: "empty tld", tld: "", server: "whois.nic.uk", pattern: "No match"},
		{name: "bare dot", tld: ".", server: "whois.nic.uk", pattern: "No match"},
		{name: "server with slash", tld: ".test", server: "whois/nic", pattern: "No match"},
		{name: "server with space", tld: ".test", server: "whois nic", pattern: "No match"},
		{name: "empty server", tld: ".test", server: "", pattern: "No match"},
		{name: "blank pattern", tld: ".test", server: "whois.test.example", pattern: "  "},
		{name: "invalid pattern", tld: ".test", server: "whois.test.example", pattern: "(unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Add(tt.tld, tt.server, tt.pattern, false)
			require.ErrorIs(t, err, serrors.ErrValidation)
		})
	}
}

func TestAdd_RoundTrip(t *testing.T) {
	store := filepath.Join(t.TempDir(), "config", "tlds")
	r := registry.Load(context.Background(), store)

	added, err := r.Add("test", "whois.test.example", "not found", false)
	require.NoError(t, err)
	require.Equal(t, ".test", added.TLD)

	entry, err := r.Resolve("sub.test")
	require.NoError(t, err)
	require.Equal(t, added, entry)

	// persisted, so a fresh load sees it too
	r2 := registry.Load(context.Background(), store)
	entry, err = r2.Resolve("sub.test")
	require.NoError(t, err)
	require.Equal(t, added, entry)
}

func TestAdd_AlreadyExistsAndOverwrite(t *testing.T) {
	store := filepath.Join(t.TempDir(), "tlds")
	r := registry.Load(context.Background(), store)

	_, err := r.Add(".com", "whois.mirror.example", "No match for", false)
	require.ErrorIs(t, err, serrors.ErrAlreadyExists)

	updated, err := r.Add(".com", "whois.mirror.example", "nothing here", true)
	require.NoError(t, err)

	entry, err := r.Resolve("example.com")
	require.NoError(t, err)
	require.Equal(t, updated, entry)
	require.Equal(t, "whois.mirror.example", entry.Server)
	require.Equal(t, "nothing here", entry.Pattern)
}

func TestAdd_AppendsWithoutRewriting(t *testing.T) {
	store := filepath.Join(t.TempDir(), "tlds")
	require.NoError(t, os.WriteFile(store, []byte("# keep me\n"), 0o644))

	r := registry.Load(context.Background(), store)
	_, err := r.Add(".first", "whois.first.example", "free", false)
	require.NoError(t, err)
	_, err = r.Add(".second", "whois.second.example", "free", false)
	require.NoError(t, err)

	data, err := os.ReadFile(store)
	require.NoError(t, err)
	require.Equal(t,
		"# keep me\n.first|whois.first.example|free\n.second|whois.second.example|free\n",
		string(data))
}
