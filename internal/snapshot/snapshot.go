// Package snapshot discovers btrbk snapshots and groups them by subvolume prefix.
package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RootPrefix is the prefix of the root subvolume. It always sorts first.
const RootPrefix = "@"

// displayLayout is the human readable timestamp format.
const displayLayout = "2006-01-02 15:04:05"

// timestampLayouts are tried in order against a snapshot suffix; first match wins.
var timestampLayouts = []string{
	"20060102_150405",
	"20060102_1504",
	"20060102T150405-0700",
	"20060102T150405",
	"20060102T1504",
	"20060102",
}

// Entry is a single read-only snapshot named "<prefix>.<suffix>".
type Entry struct {
	Name   string
	Prefix string
	Suffix string
	Path   string
}

// Group holds the snapshots of one prefix, newest first.
type Group struct {
	Prefix  string
	Entries []Entry
}

// Newest returns the first entry of the group.
func (g Group) Newest() (Entry, bool) {
	if len(g.Entries) == 0 {
		return Entry{}, false
	}
	return g.Entries[0], true
}

// Label names the subvolume of prefix for people: the prefix without its
// leading "@", or "root" for the root subvolume.
func Label(prefix string) string {
	label := strings.TrimPrefix(prefix, RootPrefix)
	if label == "" {
		return "root"
	}
	return label
}

// Listing is the grouped view of a snapshots directory.
type Listing struct {
	Dir    string
	Groups []Group
}

// Len returns the number of groups.
func (l Listing) Len() int {
	return len(l.Groups)
}

// Total returns the number of entries across all groups.
func (l Listing) Total() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g.Entries)
	}
	return n
}

// Group returns the group for prefix.
func (l Listing) Group(prefix string) (Group, bool) {
	for _, g := range l.Groups {
		if g.Prefix == prefix {
			return g, true
		}
	}
	return Group{}, false
}

// Find looks an entry up by its full name.
func (l Listing) Find(name string) (Entry, bool) {
	prefix, _, ok := Split(name)
	if !ok {
		return Entry{}, false
	}
	g, ok := l.Group(prefix)
	if !ok {
		return Entry{}, false
	}
	for _, e := range g.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Prefixes returns the group prefixes in display order.
func (l Listing) Prefixes() []string {
	out := make([]string, 0, len(l.Groups))
	for _, g := range l.Groups {
		out = append(out, g.Prefix)
	}
	return out
}

// Split parses "<prefix>.<suffix>". Names must start with "@" and contain a dot.
func Split(name string) (prefix, suffix string, ok bool) {
	if !strings.HasPrefix(name, RootPrefix) {
		return "", "", false
	}
	prefix, suffix, ok = strings.Cut(name, ".")
	if !ok {
		return "", "", false
	}
	return prefix, suffix, true
}

// Scan reads dir and groups its snapshot directories.
func Scan(dir string) (Listing, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{Dir: dir}, err
	}
	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		names = append(names, de.Name())
	}
	return Build(dir, names), nil
}

// List is Scan with read errors reported as an empty listing.
func List(dir string) Listing {
	listing, err := Scan(dir)
	if err != nil {
		return Listing{Dir: dir}
	}
	return listing
}

// Build creates a Listing from raw names found in dir.
func Build(dir string, names []string) Listing {
	byPrefix := make(map[string][]Entry)
	for _, name := range names {
		prefix, suffix, ok := Split(name)
		if !ok {
			continue
		}
		byPrefix[prefix] = append(byPrefix[prefix], Entry{
			Name:   name,
			Prefix: prefix,
			Suffix: suffix,
			Path:   filepath.Join(dir, name),
		})
	}

	prefixes := make([]string, 0, len(byPrefix))
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if prefixes[i] == RootPrefix || prefixes[j] == RootPrefix {
			return prefixes[i] == RootPrefix && prefixes[j] != RootPrefix
		}
		return prefixes[i] < prefixes[j]
	})

	listing := Listing{Dir: dir, Groups: make([]Group, 0, len(prefixes))}
	for _, p := range prefixes {
		entries := byPrefix[p]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name > entries[j].Name
		})
		listing.Groups = append(listing.Groups, Group{Prefix: p, Entries: entries})
	}
	return listing
}

// ParseTimestamp tries each known layout against suffix in local time.
func ParseTimestamp(suffix string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if len(suffix) != len(layout) {
			continue
		}
		if t, err := time.ParseInLocation(layout, suffix, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayName renders "<name> (YYYY-MM-DD HH:MM:SS)" or the raw name when the
// suffix is not a timestamp or timestamps are disabled.
func DisplayName(e Entry, showTimestamps bool) string {
	if !showTimestamps {
		return e.Name
	}
	t, ok := ParseTimestamp(e.Suffix)
	if !ok {
		return e.Name
	}
	return e.Name + " (" + t.Format(displayLayout) + ")"
}
