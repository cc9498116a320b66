// Package parser turns CSV or JSON import payloads into normalised rows.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Row is one raw import record keyed by column name.
type Row = map[string]any

type Kind string

const (
	KindFaculty Kind = "faculty"
	KindReviews Kind = "reviews"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFaculty:
		return KindFaculty, nil
	case KindReviews, "review":
		return KindReviews, nil
	}
	return "", fmt.Errorf("unknown entity %q (want faculty or reviews)", s)
}

var requiredFields = map[Kind][]string{
	KindFaculty: {"name", "department"},
	KindReviews: {"faculty_id", "course", "semester", "rating", "teaching_quality", "accessibility", "course_material", "grading", "comment"},
}

// Required returns the fields every row of kind must carry.
func Required(kind Kind) []string {
	return append([]string(nil), requiredFields[kind]...)
}

var (
	listFields   = []string{"specialization", "courses", "education", "pros", "cons"}
	boolFields   = []string{"would_recommend", "is_anonymous"}
	numberFields = []string{"rating", "teaching_quality", "accessibility", "course_material", "grading", "helpful", "reported"}
	// cells that look numeric in a spreadsheet but are text
	textFields = []string{"phone", "office", "semester", "experience", "student_name"}
	timeFields = []string{"created_at"}

	timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}
)

var ErrNoRows = errors.New("no rows to import")

/* ===============================
   CSV
=================================*/

// ParseCSV reads a header row followed by data rows. Quoted cells and
// escaped quotes are supported; short rows leave trailing columns missing.
func ParseCSV(r io.Reader) (headers []string, rows []Row, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoRows
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff")))
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(rec) {
				continue
			}
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return headers, nil, ErrNoRows
	}
	return headers, rows, nil
}

func ParseCSVString(s string) ([]string, []Row, error) {
	return ParseCSV(strings.NewReader(s))
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// MissingColumns lists required columns absent from a CSV header.
func MissingColumns(kind Kind, headers []string) []string {
	have := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		have[h] = struct{}{}
	}
	var missing []string
	for _, req := range requiredFields[kind] {
		if _, ok := have[req]; !ok {
			missing = append(missing, req)
		}
	}
	return missing
}

/* ===============================
   JSON
=================================*/

// ParseJSON accepts either an array of rows or an object with a "rows" array.
func ParseJSON(raw []byte) ([]Row, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrNoRows
	}

	var rows []Row
	if raw[0] == '[' {
		if err := sonic.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("parse json rows: %w", err)
		}
	} else {
		var wrapped struct {
			Rows []Row `json:"rows"`
		}
		if err := sonic.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("parse json rows: %w", err)
		}
		rows = wrapped.Rows
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

/* ===============================
   Normalisation
=================================*/

// Normalize returns a copy of row with blank cells removed, pipe-delimited
// list fields split, and boolean/number fields coerced. Values that cannot
// be coerced are kept as-is so validation reports them.
func Normalize(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			v = s
		}
		if v == nil {
			continue
		}
		out[key] = v
	}

	for _, k := range listFields {
		if s, ok := out[k].(string); ok {
			parts := splitPipe(s)
			if len(parts) == 0 {
				delete(out, k)
				continue
			}
			out[k] = parts
		}
	}
	for _, k := range boolFields {
		if s, ok := out[k].(string); ok {
			if b, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
				out[k] = b
			} else {
				switch strings.ToLower(s) {
				case "yes", "y":
					out[k] = true
				case "no", "n":
					out[k] = false
				}
			}
		}
	}
	for _, k := range numberFields {
		if s, ok := out[k].(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				out[k] = f
			}
		}
	}
	for _, k := range textFields {
		switch t := out[k].(type) {
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			out[k] = strconv.Itoa(t)
		}
	}
	for _, k := range timeFields {
		if s, ok := out[k].(string); ok {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					out[k] = t.UTC().Format(time.RFC3339Nano)
					break
				}
			}
		}
	}
	return out
}

func splitPipe(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MissingFields lists required fields absent from a normalised row.
func MissingFields(kind Kind, row Row) []string {
	var missing []string
	for _, f := range requiredFields[kind] {
		if _, ok := row[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
