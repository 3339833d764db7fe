// Package store handles optional CSV persistence of readings and
// inter-beat (RR) intervals, with daily file rotation. Both logs are
// nullable sinks: a nil log accepts writes and does nothing, so the
// reading pipeline never blocks on or fails from absent persistence.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pulsewatch.dev/internal/sensor"
)

const (
	timeLayout = "2006-01-02T15:04:05"
	fileLayout = "2006-01-02"
)

// csvLog is a daily-rotated CSV file with a fixed header.
type csvLog struct {
	dir     string
	suffix  string
	header  []string
	current *os.File
	writer  *csv.Writer
	curDate string
}

func (l *csvLog) rotate(t time.Time) error {
	dateStr := t.Format(fileLayout)
	if l.curDate == dateStr && l.current != nil {
		return nil
	}
	l.close()

	path := filepath.Join(l.dir, dateStr+l.suffix+".csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.current = f
	l.writer = csv.NewWriter(f)
	l.curDate = dateStr

	info, _ := f.Stat()
	if info.Size() == 0 {
		l.writer.Write(l.header)
	}
	return nil
}

func (l *csvLog) append(t time.Time, rows [][]string) error {
	if err := l.rotate(t); err != nil {
		return err
	}
	for _, row := range rows {
		l.writer.Write(row)
	}
	l.writer.Flush()
	return l.writer.Error()
}

func (l *csvLog) close() {
	if l.writer != nil {
		l.writer.Flush()
	}
	if l.current != nil {
		l.current.Close()
		l.current = nil
	}
}

// ReadingLog appends one row per reading: time, bpm, contact.
type ReadingLog struct {
	log csvLog
}

// NewReadingLog creates the log, creating dir if needed.
func NewReadingLog(dir string) (*ReadingLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &ReadingLog{log: csvLog{
		dir:    dir,
		header: []string{"time", "bpm", "contact"},
	}}, nil
}

// Write records a reading. No-op on a nil log.
func (l *ReadingLog) Write(r sensor.Reading) error {
	if l == nil {
		return nil
	}
	row := []string{
		r.At.Format(timeLayout),
		strconv.FormatUint(uint64(r.BPM), 10),
		r.Contact.String(),
	}
	return l.log.append(r.At, [][]string{row})
}

// Close flushes and closes the current file. Safe on nil.
func (l *ReadingLog) Close() {
	if l == nil {
		return
	}
	l.log.close()
}

// RRLog appends one row per inter-beat interval: time, rr_ms.
type RRLog struct {
	log csvLog
}

// NewRRLog creates the log, creating dir if needed.
func NewRRLog(dir string) (*RRLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &RRLog{log: csvLog{
		dir:    dir,
		suffix: "-rr",
		header: []string{"time", "rr_ms"},
	}}, nil
}

// Write records the RR intervals of a reading, if any. No-op on nil.
func (l *RRLog) Write(r sensor.Reading) error {
	if l == nil || len(r.RR) == 0 {
		return nil
	}
	ts := r.At.Format(timeLayout)
	rows := make([][]string, 0, len(r.RR))
	for _, rr := range r.RR {
		rows = append(rows, []string{ts, strconv.FormatInt(rr.Milliseconds(), 10)})
	}
	return l.log.append(r.At, rows)
}

// Close flushes and closes the current file. Safe on nil.
func (l *RRLog) Close() {
	if l == nil {
		return
	}
	l.log.close()
}

// StoredReading is one row loaded back from a reading log file.
type StoredReading struct {
	Time    time.Time
	BPM     uint
	Contact string
}

// LoadReadings reads all rows from a reading log CSV file.
func LoadReadings(path string) ([]StoredReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	var out []StoredReading
	for i, row := range records {
		if i == 0 && len(row) > 0 && row[0] == "time" {
			continue
		}
		if len(row) < 3 {
			continue
		}
		ts, err := time.ParseInLocation(timeLayout, row[0], time.Local)
		if err != nil {
			continue
		}
		bpm, _ := strconv.ParseUint(row[1], 10, 32)
		out = append(out, StoredReading{Time: ts, BPM: uint(bpm), Contact: row[2]})
	}
	return out, nil
}
