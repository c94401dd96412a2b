package field

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyLevel = errors.New("level has no rows")

// Level is a playfield plus the metadata a level file carries.
type Level struct {
	Name      string
	Objective string
	Field     *Field
}

type levelFile struct {
	Name      string   `yaml:"name"`
	Objective string   `yaml:"objective"`
	Rows      []string `yaml:"rows"`
	Blueprint []string `yaml:"blueprint"`
}

// ParseRows builds a field from text rows, top row first. See FillFromRune
// for the characters.
func ParseRows(rows []string) (*Field, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyLevel
	}
	cols := len([]rune(rows[0]))
	f := New(len(rows), cols)
	for i, line := range rows {
		rs := []rune(line)
		if len(rs) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(rs), cols)
		}
		row := len(rows) - 1 - i
		for col, r := range rs {
			fill, err := FillFromRune(r)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, col, err)
			}
			f.SetFill(row, col, fill)
		}
	}
	return f, nil
}

// MustParseRows is ParseRows for fixed test and sample fields.
func MustParseRows(rows ...string) *Field {
	f, err := ParseRows(rows)
	if err != nil {
		panic(err)
	}
	return f
}

// ApplyBlueprint marks blueprint cells from text rows shaped like the field.
func (f *Field) ApplyBlueprint(rows []string) error {
	if len(rows) != f.rows {
		return fmt.Errorf("blueprint has %d rows, field has %d", len(rows), f.rows)
	}
	for i, line := range rows {
		rs := []rune(line)
		if len(rs) != f.columns {
			return fmt.Errorf("blueprint row %d has %d columns, expected %d", i, len(rs), f.columns)
		}
		row := f.rows - 1 - i
		for col, r := range rs {
			fill, err := FillFromRune(r)
			if err != nil {
				return fmt.Errorf("blueprint row %d col %d: %w", i, col, err)
			}
			f.SetBlueprint(row, col, fill)
		}
	}
	return nil
}

// LoadLevel reads a YAML level.
func LoadLevel(r io.Reader) (*Level, error) {
	var lf levelFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&lf); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	rows := make([]string, len(lf.Rows))
	for i := range lf.Rows {
		rows[i] = strings.TrimRight(lf.Rows[i], "\r")
	}
	f, err := ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", lf.Name, err)
	}
	if len(lf.Blueprint) > 0 {
		if err := f.ApplyBlueprint(lf.Blueprint); err != nil {
			return nil, fmt.Errorf("level %q: %w", lf.Name, err)
		}
	}
	return &Level{Name: lf.Name, Objective: lf.Objective, Field: f}, nil
}

// LoadLevelFile opens and reads a YAML level from disk.
func LoadLevelFile(path string) (*Level, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return LoadLevel(fh)
}
