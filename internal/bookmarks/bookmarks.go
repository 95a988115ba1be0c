// Package bookmarks persists a small list of saved server connections so a
// host application can offer a "recent/favorite servers" picker instead of
// asking the player to retype host, port, and account every session.
package bookmarks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one saved server connection. Password is never stored; only the
// account name is remembered.
type Entry struct {
	Name    string `yaml:"name"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Account string `yaml:"account"`
}

// List is an ordered set of Entry, most-recently-added first.
type List struct {
	Entries []Entry `yaml:"entries"`
}

// Load reads a bookmark list from path. A missing file is not an error; it
// returns an empty List so first-run callers don't need special-case
// handling.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &List{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bookmarks: read %s: %w", path, err)
	}
	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("bookmarks: parse %s: %w", path, err)
	}
	return &l, nil
}

// Save writes the list to path, overwriting any existing file.
func (l *List) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("bookmarks: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("bookmarks: write %s: %w", path, err)
	}
	return nil
}

// Add inserts e at the front of the list, replacing any existing entry with
// the same Name.
func (l *List) Add(e Entry) {
	l.Remove(e.Name)
	l.Entries = append([]Entry{e}, l.Entries...)
}

// Remove deletes the entry with the given name, if present.
func (l *List) Remove(name string) {
	out := l.Entries[:0]
	for _, e := range l.Entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	l.Entries = out
}

// Find returns the entry with the given name, if present.
func (l *List) Find(name string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
