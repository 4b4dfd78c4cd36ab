// Package catalog reads and writes the small per-table metadata
// document ("<table>_catalog") that records a table's column names
// and their scalar types. A catalog is created once, with the table,
// and is read-only for the remainder of the table's life.
package catalog

import (
	"fmt"
	"os"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// Catalog is the parsed {columns, schema} document for one table.
type Catalog struct {
	Columns []string     `yaml:"columns" mapstructure:"columns"`
	Schema  []tuple.Type `yaml:"-" mapstructure:"-"`

	// SchemaNames mirrors Schema as the on-disk type names; kept so
	// viper/yaml round-trip the human-readable form rather than the
	// internal numeric Type enum.
	SchemaNames []string `yaml:"schema" mapstructure:"schema"`
}

// FileName returns the catalog document's path for table.
func FileName(table string) string {
	return table + "_catalog"
}

// Store provides cached read access and write access to catalog
// documents rooted at dir.
type Store struct {
	dir   string
	cache *ristretto.Cache[string, *Catalog]
}

// NewStore opens a catalog store rooted at dir. dir must already
// exist; Store does not create directories.
func NewStore(dir string) (*Store, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Catalog]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "constructing catalog cache")
	}
	return &Store{dir: dir, cache: cache}, nil
}

func (s *Store) path(table string) string {
	return s.dir + string(os.PathSeparator) + FileName(table)
}

// Read loads the catalog for table, consulting the read cache first.
// A catalog is immutable after creation (spec.md §3 Lifecycles), so a
// cache hit is always valid unless this process itself just called
// Write for the same table, in which case Write already evicted it.
func (s *Store) Read(table string) (*Catalog, error) {
	if c, ok := s.cache.Get(table); ok {
		return c, nil
	}

	v := viper.New()
	v.SetConfigFile(s.path(table))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, dberr.IO(err, "reading catalog for table %q", table)
	}

	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrapf(err, "parsing catalog for table %q", table)
	}
	if len(c.Columns) != len(c.SchemaNames) {
		return nil, dberr.SchemaViolation("catalog for table %q: %d columns but %d schema entries", table, len(c.Columns), len(c.SchemaNames))
	}
	c.Schema = make([]tuple.Type, len(c.SchemaNames))
	for i, name := range c.SchemaNames {
		t, err := tuple.TypeFromString(name)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog for table %q, column %q", table, c.Columns[i])
		}
		c.Schema[i] = t
	}

	s.cache.Set(table, &c, 1)
	s.cache.Wait()
	return &c, nil
}

// Write persists the catalog for table and evicts any cached copy
// before returning, so a subsequent Read never observes a stale entry.
func (s *Store) Write(table string, c *Catalog) error {
	if len(c.Columns) != len(c.Schema) {
		return dberr.SchemaViolation("catalog for table %q: %d columns but %d schema entries", table, len(c.Columns), len(c.Schema))
	}
	names := make([]string, len(c.Schema))
	for i, t := range c.Schema {
		names[i] = t.String()
	}
	doc := Catalog{Columns: c.Columns, SchemaNames: names}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encoding catalog for table %q", table)
	}

	tmp := s.path(table) + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return dberr.IO(err, "writing catalog for table %q", table)
	}
	if err := os.Rename(tmp, s.path(table)); err != nil {
		return dberr.IO(err, "installing catalog for table %q", table)
	}

	s.cache.Del(table)
	s.cache.Wait()
	return nil
}

func (c *Catalog) String() string {
	return fmt.Sprintf("Catalog{columns=%v, schema=%v}", c.Columns, c.SchemaNames)
}
