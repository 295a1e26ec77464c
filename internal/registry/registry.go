// Package registry maps top-level domains to the whois server answering for
// them and the response pattern that signals availability. Built-in defaults
// are merged with entries from a user store file; on key collisions the
// last-loaded entry wins, so user entries override built-ins.
package registry

import (
	"bufio"
	"context"
	"dropwatch/pkg/domain"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var (
	tldRe    = regexp.MustCompile(`^\.[A-Za-z0-9-]+$`)
	serverRe = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)
)

// Registry owns the TLD mapping for the process lifetime. It is not safe for
// concurrent mutation; the single watch run owns it exclusively.
type Registry struct {
	entries   map[string]domain.TLDEntry
	storePath string
}

// Load builds a Registry from the built-in table plus the user store at
// storePath. Loading never fails: a missing store is normal, and unreadable
// files or malformed lines are skipped with a warning.
func Load(ctx context.Context, storePath string) *Registry {
	r := &Registry{
		entries:   make(map[string]domain.TLDEntry, len(builtinEntries)),
		storePath: storePath,
	}
	for _, e := range builtinEntries {
		r.entries[e.TLD] = e
	}
	if storePath == "" {
		return r
	}

	f, err := os.Open(storePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn(ctx, "could not read tld user store", zap.String("path", storePath), zap.Error(err))
		}

		return r
	}
	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// The pattern field is a regex and may itself contain pipes, so only
		// the first two separators split fields.
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			logger.Warn(ctx, "skipping malformed tld entry",
				zap.String("path", storePath), zap.Int("line", lineNo))

			continue
		}

		entry := domain.TLDEntry{
			TLD:     normalizeTLD(parts[0]),
			Server:  strings.TrimSpace(parts[1]),
			Pattern: parts[2],
		}
		if err := validateEntry(entry); err != nil {
			logger.Warn(ctx, "skipping invalid tld entry",
				zap.String("path", storePath), zap.Int("line", lineNo), zap.Error(err))

			continue
		}
		r.entries[entry.TLD] = entry
	}
	if err := sc.Err(); err != nil {
		logger.Warn(ctx, "could not read tld user store", zap.String("path", storePath), zap.Error(err))
	}

	return r
}

// Resolve returns the entry registered for the rightmost dot-delimited label
// of name. Any scheme prefix and path suffix are ignored, and the label is
// normalized to lowercase with a leading dot before lookup. Unknown TLDs fail
// with ErrNotFound.
func (r *Registry) Resolve(name string) (domain.TLDEntry, error) {
	host := name
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}

	label := host
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		label = host[i+1:]
	}

	key := "." + strings.ToLower(label)
	entry, ok := r.entries[key]
	if !ok {
		return domain.TLDEntry{}, serrors.With(serrors.ErrNotFound, "no registry entry for %q", key)
	}

	return entry, nil
}

// Add validates and registers a new mapping, appending it to the user store.
// The tld is normalized to lowercase with a leading dot. An existing key
// fails with ErrAlreadyExists unless overwrite is set.
func (r *Registry) Add(tld string, server string, pattern string, overwrite bool) (domain.TLDEntry, error) {
	entry := domain.TLDEntry{
		TLD:     normalizeTLD(tld),
		Server:  strings.TrimSpace(server),
		Pattern: pattern,
	}
	if err := validateEntry(entry); err != nil {
		return domain.TLDEntry{}, err
	}
	if _, exists := r.entries[entry.TLD]; exists && !overwrite {
		return domain.TLDEntry{}, serrors.With(serrors.ErrAlreadyExists,
			"registry already maps %s; pass overwrite to replace it", entry.TLD)
	}

	if err := r.persist(entry); err != nil {
		return domain.TLDEntry{}, err
	}
	r.entries[entry.TLD] = entry

	return entry, nil
}

// Entries returns a snapshot of all mappings sorted by TLD.
func (r *Registry) Entries() []domain.TLDEntry {
	out := make([]domain.TLDEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TLD < out[j].TLD })

	return out
}

// StorePath returns the user store file backing Add, which may not exist yet.
func (r *Registry) StorePath() string { return r.storePath }

// persist appends the entry to the user store, creating it on first use. The
// store is append-only; it is never rewritten in place.
func (r *Registry) persist(e domain.TLDEntry) error {
	if r.storePath == "" {
		return serrors.With(serrors.ErrValidation, "no tld user store configured")
	}
	if err := os.MkdirAll(filepath.Dir(r.storePath), 0o755); err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not create user store directory")
	}

	f, err := os.OpenFile(r.storePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not open user store %s", r.storePath)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := fmt.Fprintf(f, "%s|%s|%s\n", e.TLD, e.Server, e.Pattern); err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not append to user store %s", r.storePath)
	}

	return nil
}

func normalizeTLD(tld string) string {
	tld = strings.ToLower(strings.TrimSpace(tld))
	if tld != "" && !strings.HasPrefix(tld, ".") {
		tld = "." + tld
	}

	return tld
}

func validateEntry(e domain.TLDEntry) error {
	if !tldRe.MatchString(e.TLD) {
		return serrors.With(serrors.ErrValidation,
			"invalid tld %q: only letters, digits and hyphens are allowed", e.TLD)
	}
	if !serverRe.MatchString(e.Server) {
		return serrors.With(serrors.ErrValidation,
			"invalid server %q: only letters, digits, dots and hyphens are allowed", e.Server)
	}
	if _, err := whois.NewMatcher(e.Pattern); err != nil {
		return err
	}

	return nil
}
