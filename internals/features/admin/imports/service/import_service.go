package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/admin/imports/dto"
	"campusaxis_backend/internals/features/admin/imports/model"
	"campusaxis_backend/internals/features/admin/imports/parser"
	helper "campusaxis_backend/internals/helpers"
)

const MaxRows = 5000

var ErrTooManyRows = fmt.Errorf("at most %d rows per import", MaxRows)

type Options struct {
	Upsert        bool
	DryRun        bool
	DefaultStatus model.ReviewStatus
}

// Importer validates rows and, outside dry runs, writes them one by one;
// a bad row never aborts the rest of the batch.
type Importer struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewImporter(db *gorm.DB) *Importer {
	return &Importer{DB: db, Validator: helper.NewValidator()}
}

func (im *Importer) Import(ctx context.Context, kind parser.Kind, rows []parser.Row, opts Options) (*dto.Summary, error) {
	if len(rows) == 0 {
		return nil, parser.ErrNoRows
	}
	if len(rows) > MaxRows {
		return nil, ErrTooManyRows
	}
	if opts.DefaultStatus == "" {
		opts.DefaultStatus = model.ReviewApproved
	}

	sum := &dto.Summary{
		Entity:  string(kind),
		DryRun:  opts.DryRun,
		Upsert:  opts.Upsert,
		Total:   len(rows),
		Results: make([]dto.RowResult, 0, len(rows)),
	}
	facultyExists := map[uuid.UUID]bool{}

	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		row := parser.Normalize(raw)
		res := dto.RowResult{Index: i + 1}

		if missing := parser.MissingFields(kind, row); len(missing) > 0 {
			res.Status = dto.RowInvalid
			res.Errors = []string{"missing required field(s): " + strings.Join(missing, ", ")}
			sum.Add(res)
			continue
		}

		switch kind {
		case parser.KindFaculty:
			res = im.importFaculty(ctx, row, res, opts)
		case parser.KindReviews:
			res = im.importReview(ctx, row, res, opts, facultyExists)
		default:
			return nil, fmt.Errorf("unknown entity %q", kind)
		}
		sum.Add(res)
	}

	log.Printf("[IMPORT] %s dry_run=%v upsert=%v total=%d valid=%d invalid=%d inserted=%d updated=%d failed=%d",
		kind, opts.DryRun, opts.Upsert, sum.Total, sum.Valid, sum.Invalid, sum.Inserted, sum.Updated, sum.Failed)
	return sum, nil
}

/* ===============================
   Per-entity
=================================*/

func (im *Importer) importFaculty(ctx context.Context, row parser.Row, res dto.RowResult, opts Options) dto.RowResult {
	var fr dto.FacultyRow
	if errs := im.decode(row, &fr); len(errs) > 0 {
		return invalid(res, errs)
	}
	res.ID = fr.ID
	if opts.DryRun {
		res.Status = dto.RowValid
		return res
	}

	m := fr.ToModel()
	db := im.DB.WithContext(ctx)

	if fr.ID != nil && opts.Upsert {
		exists, err := rowExists(db, &model.Faculty{}, "faculty_id", *fr.ID)
		if err != nil {
			return failed(res, err)
		}
		if exists {
			cols := append(presentColumns(row, dto.FacultyColumns), "faculty_updated_at")
			if err := db.Model(&model.Faculty{}).
				Where("faculty_id = ?", *fr.ID).
				Select(cols).
				Updates(m).Error; err != nil {
				return failed(res, err)
			}
			res.Status = dto.RowUpdated
			return res
		}
		m.FacultyID = *fr.ID
	}

	if err := db.Create(m).Error; err != nil {
		return failed(res, err)
	}
	res.ID = &m.FacultyID
	res.Status = dto.RowInserted
	return res
}

func (im *Importer) importReview(ctx context.Context, row parser.Row, res dto.RowResult, opts Options, facultyExists map[uuid.UUID]bool) dto.RowResult {
	var rr dto.ReviewRow
	if errs := im.decode(row, &rr); len(errs) > 0 {
		return invalid(res, errs)
	}
	res.ID = rr.ID
	db := im.DB.WithContext(ctx)

	known, cached := facultyExists[rr.FacultyID]
	if !cached {
		ok, err := rowExists(db, &model.Faculty{}, "faculty_id", rr.FacultyID)
		if err != nil {
			return failed(res, err)
		}
		facultyExists[rr.FacultyID] = ok
		known = ok
	}
	if !known {
		return invalid(res, []string{fmt.Sprintf("faculty_id: no faculty with id %s", rr.FacultyID)})
	}

	if opts.DryRun {
		res.Status = dto.RowValid
		return res
	}

	m := rr.ToModel(opts.DefaultStatus)

	if rr.ID != nil && opts.Upsert {
		exists, err := rowExists(db, &model.FacultyReview{}, "review_id", *rr.ID)
		if err != nil {
			return failed(res, err)
		}
		if exists {
			cols := append(presentColumns(row, dto.ReviewColumns), "review_updated_at")
			if err := db.Model(&model.FacultyReview{}).
				Where("review_id = ?", *rr.ID).
				Select(cols).
				Updates(m).Error; err != nil {
				return failed(res, err)
			}
			res.Status = dto.RowUpdated
			return res
		}
		m.ReviewID = *rr.ID
	}

	if err := db.Create(m).Error; err != nil {
		return failed(res, err)
	}
	res.ID = &m.ReviewID
	res.Status = dto.RowInserted
	return res
}

/* ===============================
   Helpers
=================================*/

// decode maps a normalised row onto a typed row and validates it.
func (im *Importer) decode(row parser.Row, out any) []string {
	raw, err := sonic.Marshal(row)
	if err != nil {
		return []string{"row is not encodable: " + err.Error()}
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return []string{"row has a value of the wrong type: " + typeErrorHint(err)}
	}
	if err := im.Validator.Struct(out); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return fieldMessages(ve)
		}
		return []string{err.Error()}
	}
	return nil
}

func typeErrorHint(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return msg
}

func fieldMessages(ve validator.ValidationErrors) []string {
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fe.Field()+": "+helper.FieldMessage(fe))
	}
	return out
}

// presentColumns returns the columns a partial update may touch: those the
// row actually carries. Blank cells were removed by Normalize.
func presentColumns(row parser.Row, mapping map[string]string) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		if col, ok := mapping[k]; ok {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

func rowExists(db *gorm.DB, m any, col string, id uuid.UUID) (bool, error) {
	var n int64
	if err := db.Model(m).Where(col+" = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func invalid(res dto.RowResult, errs []string) dto.RowResult {
	res.Status = dto.RowInvalid
	res.Errors = errs
	return res
}

func failed(res dto.RowResult, err error) dto.RowResult {
	res.Status = dto.RowFailed
	switch {
	case helper.IsUniqueViolation(err):
		res.Errors = []string{"duplicate record"}
	case helper.IsForeignKeyViolation(err):
		res.Errors = []string{"referenced record does not exist"}
	default:
		log.Printf("[IMPORT] row %d write failed: %v", res.Index, err)
		res.Errors = []string{"write failed"}
	}
	return res
}
