// Package replhelpers is the repl-style convenience spec.md §1 places out of
// scope for the core: a small catalog of common shells, keyed by name, each
// entry carrying the command to spawn and a prompt needle to expect right
// after startup. It is a consumer of the expect package only — no core
// matching/buffering logic lives here.
//
// Grounded on the teacher's internal/config.ProcTmuxConfig/LoadConfig: a
// gopkg.in/yaml.v3-decoded struct with a SetDefaults pass for anything the
// file on disk doesn't specify, generalized from "process manager config"
// to "known REPL prompt needles".
package replhelpers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nick/expectgo"
)

// Profile describes one known REPL: the command that starts it and the
// regex its prompt matches once the shell is ready for input.
type Profile struct {
	Cmd    string `yaml:"cmd"`
	Prompt string `yaml:"prompt"`
}

// Catalog is a named set of Profiles, decoded from YAML the same shape the
// teacher's config.go uses for its process map.
type Catalog struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultCatalog returns the built-in profiles for bash, zsh, python, and
// node, used when no catalog file is supplied.
func DefaultCatalog() *Catalog {
	return &Catalog{Profiles: map[string]Profile{
		"bash":   {Cmd: "bash --norc --noprofile", Prompt: `\$\s*$`},
		"zsh":    {Cmd: "zsh -f", Prompt: `[%#]\s*$`},
		"python": {Cmd: "python3 -u", Prompt: `>>> $`},
		"node":   {Cmd: "node", Prompt: `> $`},
	}}
}

// LoadCatalog decodes a YAML catalog file, mirroring the teacher's
// LoadConfig: open, decode, apply defaults for anything missing.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cat := &Catalog{Profiles: map[string]Profile{}}
	if err := yaml.NewDecoder(f).Decode(cat); err != nil {
		return nil, fmt.Errorf("replhelpers: decode catalog: %w", err)
	}

	for name, def := range DefaultCatalog().Profiles {
		if _, ok := cat.Profiles[name]; !ok {
			cat.Profiles[name] = def
		}
	}
	return cat, nil
}

// ErrUnknownProfile is returned by Spawn when name isn't in the catalog.
type ErrUnknownProfile string

func (e ErrUnknownProfile) Error() string {
	return fmt.Sprintf("replhelpers: unknown profile %q", string(e))
}

// Spawn starts the named profile's shell under a PTY and returns the ready
// Session alongside a compiled Needle matching its prompt, so callers can
// immediately Expect the prompt before sending their first line.
func (c *Catalog) Spawn(name string, opts ...expectgo.Option) (*expectgo.Session, expectgo.Needle, error) {
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, nil, ErrUnknownProfile(name)
	}

	sess, err := expectgo.Spawn(profile.Cmd, opts...)
	if err != nil {
		return nil, nil, err
	}

	needle, err := expectgo.Regex(profile.Prompt)
	if err != nil {
		sess.Close(true)
		return nil, nil, fmt.Errorf("replhelpers: compile prompt for %q: %w", name, err)
	}
	return sess, needle, nil
}

// Spawn is the package-level convenience over DefaultCatalog, the entry
// point spec.md §1 describes: "launch a common shell".
func Spawn(name string, opts ...expectgo.Option) (*expectgo.Session, expectgo.Needle, error) {
	return DefaultCatalog().Spawn(name, opts...)
}
