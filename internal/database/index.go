package database

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aria-lang/swsearch-go/internal/sequence"
)

const (
	indexMagic   = "swsearch-index"
	indexVersion = 1
)

// ErrBadIndex is wrapped by every index parsing and verification error.
var ErrBadIndex = errors.New("bad index")

// Entry locates one record in the database file.
type Entry struct {
	Offset   int64 // byte offset of the '>' line
	Residues int
}

// Index lists the records of a FASTA database in file order.
type Index struct {
	Entries       []Entry
	TotalResidues int64
}

// Len returns the number of records.
func (ix *Index) Len() int { return len(ix.Entries) }

// Lengths returns the residue count of every record.
func (ix *Index) Lengths() []int {
	out := make([]int, len(ix.Entries))
	for i, e := range ix.Entries {
		out[i] = e.Residues
	}
	return out
}

// BuildIndex scans FASTA text and records where each record starts and how
// many residues it holds. Residues are validated as they are counted.
func BuildIndex(r io.Reader) (*Index, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	ix := &Index{}
	var (
		offset     int64
		lineNo     int
		headerLine int
	)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			start := offset
			offset += int64(len(line))
			body := bytes.TrimRight(line, " \t\r\n")
			switch {
			case len(body) == 0:
			case body[0] == '>':
				if n := len(ix.Entries); n > 0 && ix.Entries[n-1].Residues == 0 {
					return nil, &sequence.FormatError{Line: headerLine, Reason: "record has no residues"}
				}
				ix.Entries = append(ix.Entries, Entry{Offset: start})
				headerLine = lineNo
			case len(ix.Entries) == 0:
				return nil, &sequence.FormatError{Line: lineNo, Reason: "expected '>' description line"}
			default:
				if verr := sequence.Validate(string(body)); verr != nil {
					return nil, &sequence.FormatError{Line: lineNo, Reason: "bad residue line", Err: verr}
				}
				ix.Entries[len(ix.Entries)-1].Residues += len(body)
				ix.TotalResidues += int64(len(body))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading database: %w", err)
		}
	}
	if n := len(ix.Entries); n > 0 && ix.Entries[n-1].Residues == 0 {
		return nil, &sequence.FormatError{Line: headerLine, Reason: "record has no residues"}
	}
	return ix, nil
}

// WriteTo writes the index in its text form.
func (ix *Index) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	n, err := fmt.Fprintf(bw, "%s %d %d %d\n", indexMagic, indexVersion, len(ix.Entries), ix.TotalResidues)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, e := range ix.Entries {
		n, err = fmt.Fprintf(bw, "%d %d\n", e.Offset, e.Residues)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// ReadIndex parses an index written by WriteTo.
func ReadIndex(r io.Reader) (*Index, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading index: %w", err)
		}
		return nil, fmt.Errorf("%w: empty file", ErrBadIndex)
	}
	header := strings.Fields(sc.Text())
	if len(header) != 4 || header[0] != indexMagic {
		return nil, fmt.Errorf("%w: missing %q header", ErrBadIndex, indexMagic)
	}
	if header[1] != strconv.Itoa(indexVersion) {
		return nil, fmt.Errorf("%w: unsupported version %s", ErrBadIndex, header[1])
	}
	records, err := strconv.Atoi(header[2])
	if err != nil || records < 0 {
		return nil, fmt.Errorf("%w: bad record count %q", ErrBadIndex, header[2])
	}
	total, err := strconv.ParseInt(header[3], 10, 64)
	if err != nil || total < 0 {
		return nil, fmt.Errorf("%w: bad residue count %q", ErrBadIndex, header[3])
	}

	ix := &Index{Entries: make([]Entry, 0, records), TotalResidues: total}
	var sum int64
	lineNo := 1
	for sc.Scan() {
		lineNo++
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d", ErrBadIndex, lineNo, len(f))
		}
		off, err1 := strconv.ParseInt(f[0], 10, 64)
		res, err2 := strconv.Atoi(f[1])
		if err1 != nil || err2 != nil || off < 0 || res < 0 {
			return nil, fmt.Errorf("%w: line %d: bad entry %q", ErrBadIndex, lineNo, sc.Text())
		}
		if n := len(ix.Entries); n > 0 && off <= ix.Entries[n-1].Offset {
			return nil, fmt.Errorf("%w: line %d: offsets not increasing", ErrBadIndex, lineNo)
		}
		ix.Entries = append(ix.Entries, Entry{Offset: off, Residues: res})
		sum += int64(res)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	if len(ix.Entries) != records {
		return nil, fmt.Errorf("%w: header says %d records, found %d", ErrBadIndex, records, len(ix.Entries))
	}
	if sum != total {
		return nil, fmt.Errorf("%w: header says %d residues, entries sum to %d", ErrBadIndex, total, sum)
	}
	return ix, nil
}

// ReadIndexFile reads the index stored at path.
func ReadIndexFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer f.Close()
	ix, err := ReadIndex(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// WriteIndexFile builds the index of the database at dbPath and writes it
// to indexPath.
func WriteIndexFile(dbPath, indexPath string) (*Index, error) {
	db, err := os.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ix, err := BuildIndex(db)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dbPath, err)
	}

	out, err := os.Create(indexPath)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	if _, err := ix.WriteTo(out); err != nil {
		out.Close()
		return nil, fmt.Errorf("writing index: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("writing index: %w", err)
	}
	return ix, nil
}
