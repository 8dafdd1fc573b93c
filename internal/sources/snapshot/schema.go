package snapshot

// Entry is a single node of the snapshot YAML file. Hierarchy comes
// from nesting; parent references are derived by the mapper.
type Entry struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	URL      string  `yaml:"url"`
	Children []Entry `yaml:"children"`
}

// File is the root structure of the snapshot file: a forest of entries.
type File []Entry
