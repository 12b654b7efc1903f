package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Remotes holds all named backend profiles and tracks which one is active.
type Remotes struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// Remote is a named backend profile.
type Remote struct {
	URL         string `toml:"url"`
	Token       string `toml:"token,omitempty"`
	NATSURL     string `toml:"nats_url,omitempty"`
	Description string `toml:"description,omitempty"`
}

// RemotesPath returns ~/.local/state/hiredesk/remotes.toml, creating the
// directory (0700) if needed.
func RemotesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "hiredesk")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "remotes.toml"), nil
}

// LoadRemotes reads the remotes file. A missing file yields an empty set.
func LoadRemotes() (Remotes, error) {
	path, err := RemotesPath()
	if err != nil {
		return Remotes{}, err
	}
	var r Remotes
	if _, err := toml.DecodeFile(path, &r); err != nil {
		if os.IsNotExist(err) {
			return Remotes{Remotes: map[string]Remote{}}, nil
		}
		return Remotes{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if r.Remotes == nil {
		r.Remotes = map[string]Remote{}
	}
	return r, nil
}

// SaveRemotes writes the remotes file with 0600 permissions; it holds tokens.
func SaveRemotes(r Remotes) error {
	path, err := RemotesPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(r)
}

// Names returns the remote names in sorted order.
func (r Remotes) Names() []string {
	names := make([]string, 0, len(r.Remotes))
	for name := range r.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current returns the active remote, if one is set and still defined.
func (r Remotes) Current() (Remote, bool) {
	if r.Active == "" {
		return Remote{}, false
	}
	rem, ok := r.Remotes[r.Active]
	return rem, ok
}

// ApplyRemote fills API URL, token and NATS URL from the active remote
// where the environment left them unset. apiURLFromEnv tells whether
// HIREDESK_API_URL was given explicitly, since the field always carries
// a default.
func (c *Config) ApplyRemote(r Remote, apiURLFromEnv bool) {
	if !apiURLFromEnv && r.URL != "" {
		c.APIURL = r.URL
	}
	if c.Token == "" {
		c.Token = r.Token
	}
	if c.NATSURL == "" {
		c.NATSURL = r.NATSURL
	}
}

// MaskToken shows the first eight characters of a token.
func MaskToken(tok string) string {
	if len(tok) <= 8 {
		return tok
	}
	return tok[:8] + strings.Repeat("*", len(tok)-8)
}
