// SPDX-License-Identifier: Apache-2.0

package table

// Entry is one table of a collection together with where it came from.
type Entry struct {
	// Source identifies the file or database the table came from.
	Source string
	// SubSource identifies the sheet or extracted table within Source.
	SubSource string
	Table     *Table
}

// Collection is any container of tables. Flat lists and nested
// file/sheet mappings both iterate as (source, sub-source, table).
type Collection interface {
	Entries() []Entry
}

// Entries iterates c, treating a nil collection as empty.
func Entries(c Collection) []Entry {
	if c == nil {
		return nil
	}
	return c.Entries()
}

// Tables returns the tables of c in iteration order.
func Tables(c Collection) []*Table {
	entries := Entries(c)
	tables := make([]*Table, 0, len(entries))
	for _, e := range entries {
		tables = append(tables, e.Table)
	}
	return tables
}

// List is a flat sequence of tables extracted from one document,
// each carrying its own provenance label.
type List struct {
	Name   string
	Tables []*Table
}

func (l List) Entries() []Entry {
	entries := make([]Entry, 0, len(l.Tables))
	for _, t := range l.Tables {
		if t == nil {
			continue
		}
		entries = append(entries, Entry{Source: l.Name, SubSource: t.Label, Table: t})
	}
	return entries
}

// Workbook is a named file holding sheets in their declared order.
// Each sheet's Label is its sheet name.
type Workbook struct {
	Name   string
	Sheets []*Table
}

func (w Workbook) Entries() []Entry {
	entries := make([]Entry, 0, len(w.Sheets))
	for _, t := range w.Sheets {
		if t == nil {
			continue
		}
		entries = append(entries, Entry{Source: w.Name, SubSource: t.Label, Table: t})
	}
	return entries
}

// Sheet returns the sheet with the given name, or nil.
func (w Workbook) Sheet(name string) *Table {
	for _, t := range w.Sheets {
		if t != nil && t.Label == name {
			return t
		}
	}
	return nil
}

// Workbooks is an ordered mapping from file name to its sheets.
type Workbooks []Workbook

func (ws Workbooks) Entries() []Entry {
	var entries []Entry
	for _, w := range ws {
		entries = append(entries, w.Entries()...)
	}
	return entries
}

// Merge flattens several collections into one, preserving order.
type Merge []Collection

func (m Merge) Entries() []Entry {
	var entries []Entry
	for _, c := range m {
		entries = append(entries, Entries(c)...)
	}
	return entries
}
