// Package database provides random access to the records of a FASTA file
// through a memory mapping and a small text index of record offsets.
package database

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/aria-lang/swsearch-go/internal/sequence"
)

// Database is a memory-mapped FASTA file. Records are decoded on demand
// and may be read from several goroutines at once.
type Database struct {
	path  string
	mm    mmap.MMap
	data  []byte
	index *Index
}

// Open maps the database at dbPath and loads the index at indexPath. Every
// index offset must point at a '>' inside the file.
func Open(dbPath, indexPath string) (*Database, error) {
	ix, err := ReadIndexFile(indexPath)
	if err != nil {
		return nil, err
	}
	return OpenWithIndex(dbPath, ix)
}

// OpenWithIndex maps the database at dbPath using an index already in
// memory.
func OpenWithIndex(dbPath string, ix *Index) (*Database, error) {
	fp, err := os.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer fp.Close()

	info, err := fp.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	db := &Database{path: dbPath, index: ix}
	if info.Size() > 0 {
		if db.mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
			return nil, fmt.Errorf("mapping %s: %w", dbPath, err)
		}
		db.data = db.mm
	}

	if err := db.verify(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *Database) verify() error {
	for i, e := range db.index.Entries {
		if e.Offset >= int64(len(db.data)) || db.data[e.Offset] != '>' {
			return fmt.Errorf("%w: record %d offset %d does not start a record in %s", ErrBadIndex, i, e.Offset, db.path)
		}
	}
	return nil
}

// Close unmaps the file. Sequences already returned by Record stay valid.
func (db *Database) Close() error {
	if db.mm == nil {
		return nil
	}
	err := db.mm.Unmap()
	db.mm, db.data = nil, nil
	return err
}

// Path returns the database file name.
func (db *Database) Path() string { return db.path }

// Len returns the number of records.
func (db *Database) Len() int { return db.index.Len() }

// TotalResidues returns the residue count of the whole database.
func (db *Database) TotalResidues() int64 { return db.index.TotalResidues }

// Index returns the loaded index.
func (db *Database) Index() *Index { return db.index }

// Record decodes record i (0-based).
func (db *Database) Record(i int) (*sequence.Sequence, error) {
	if i < 0 || i >= db.index.Len() {
		return nil, fmt.Errorf("record %d out of range [0,%d)", i, db.index.Len())
	}
	if db.data == nil {
		return nil, fmt.Errorf("database %s is closed", db.path)
	}
	start := db.index.Entries[i].Offset
	end := int64(len(db.data))
	if i+1 < db.index.Len() {
		end = db.index.Entries[i+1].Offset
	}
	seq, err := sequence.Parse(db.data[start:end])
	if err != nil {
		return nil, fmt.Errorf("%s record %d: %w", db.path, i, err)
	}
	if seq.Len() != db.index.Entries[i].Residues {
		return nil, fmt.Errorf("%w: record %d has %d residues, index says %d", ErrBadIndex, i, seq.Len(), db.index.Entries[i].Residues)
	}
	return seq, nil
}
