// Package catalog provides the read-only list of sample books users can add
// to their collection. The built-in list is embedded; a YAML file with the
// same layout can replace it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/bookshelf/internal/entities"
)

//go:embed books.yaml
var defaultCatalog []byte

var ErrIndexOutOfRange = errors.New("catalog index out of range")

const defaultImage = "book.closed"

type Entry struct {
	Title    string `yaml:"title" json:"title"`
	Author   string `yaml:"author" json:"author"`
	Synopsis string `yaml:"synopsis" json:"synopsis"`
	Image    string `yaml:"image" json:"imageName"`
}

// Book turns the entry into a new collection record with a fresh id.
func (e Entry) Book() entities.Book {
	book := entities.NewBook(e.Title, e.Author)
	if e.Synopsis != "" {
		book.Synopsis = entities.StringPtr(e.Synopsis)
	}
	if e.Image != "" {
		book.ImageName = entities.StringPtr(e.Image)
	}
	return book
}

type file struct {
	Books []Entry `yaml:"books"`
}

type Catalog struct {
	entries []Entry
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog. Every entry needs a title and an author.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range f.Books {
		entry := &f.Books[i]
		entry.Title = strings.TrimSpace(entry.Title)
		entry.Author = strings.TrimSpace(entry.Author)
		if entry.Title == "" || entry.Author == "" {
			return nil, fmt.Errorf("catalog entry %d: title and author are required", i)
		}
		if entry.Image == "" {
			entry.Image = defaultImage
		}
	}
	return &Catalog{entries: f.Books}, nil
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog in display order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Get(index int) (Entry, error) {
	if index < 0 || index >= len(c.entries) {
		return Entry{}, fmt.Errorf("%w: %d (catalog has %d books)", ErrIndexOutOfRange, index, len(c.entries))
	}
	return c.entries[index], nil
}
