package objects

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const header = "label\trowC\tcolC\ttheta\tminE\tmaxE\tarea"

// Save writes the database as tab separated text, one line per record after
// the header. Records are renumbered 1..Len() in order.
func (db *Database) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, header); err != nil {
		return fmt.Errorf("failed to write database header: %w", err)
	}
	for k := range db.Records {
		r := &db.Records[k]
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%f\t%f\t%f\t%d\n",
			k+1, r.RowCenter, r.ColCenter, r.ThetaDegrees(), r.MinE, r.MaxE, r.Area); err != nil {
			return fmt.Errorf("failed to write record %d: %w", k+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}

// SaveFile writes the database to path.
func (db *Database) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if err := db.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Load reads a database written by Save. Blank lines are skipped; any other
// malformed line fails with ErrInvalidDatabase.
func Load(r io.Reader) (*Database, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() || strings.TrimRight(sc.Text(), "\r") != header {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read database: %w", err)
		}
		return nil, fmt.Errorf("%w: missing header", ErrInvalidDatabase)
	}

	db := &Database{}
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec, err := parseRecord(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidDatabase, line, err)
		}
		db.Records = append(db.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	return db, nil
}

// LoadFile reads a database from path.
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer f.Close()

	db, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

func parseRecord(text string) (Record, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 7 {
		return Record{}, fmt.Errorf("got %d fields, want 7", len(fields))
	}

	var (
		rec  Record
		ints [3]int
		flts [3]float64
		err  error
	)
	for k := 0; k < 3; k++ {
		if ints[k], err = strconv.Atoi(fields[k]); err != nil {
			return Record{}, err
		}
		if flts[k], err = strconv.ParseFloat(fields[3+k], 64); err != nil {
			return Record{}, err
		}
	}
	if rec.Area, err = strconv.ParseInt(fields[6], 10, 64); err != nil {
		return Record{}, err
	}

	rec.Label = ints[0]
	rec.RowCenter = ints[1]
	rec.ColCenter = ints[2]
	rec.Theta = flts[0] * math.Pi / 180
	rec.MinE = flts[1]
	rec.MaxE = flts[2]
	return rec, nil
}
