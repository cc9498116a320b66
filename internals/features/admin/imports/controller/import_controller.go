package controller

import (
	"errors"
	"log"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/admin/imports/dto"
	"campusaxis_backend/internals/features/admin/imports/model"
	"campusaxis_backend/internals/features/admin/imports/parser"
	"campusaxis_backend/internals/features/admin/imports/service"
	helper "campusaxis_backend/internals/helpers"
)

type ImportController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Importer  *service.Importer
}

func NewImportController(db *gorm.DB) *ImportController {
	return &ImportController{
		DB:        db,
		Validator: helper.NewValidator(),
		Importer:  service.NewImporter(db),
	}
}

// POST /admin/import/faculty
func (ctl *ImportController) ImportFaculty(c *fiber.Ctx) error {
	return ctl.handle(c, parser.KindFaculty)
}

// POST /admin/import/reviews
func (ctl *ImportController) ImportReviews(c *fiber.Ctx) error {
	return ctl.handle(c, parser.KindReviews)
}

func (ctl *ImportController) handle(c *fiber.Ctx, kind parser.Kind) error {
	req, rows, headers, err := ctl.readRequest(c)
	if err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return helper.JsonValidationError(c, re.msg, re.fields)
		}
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "Invalid import options", helper.ValidationFields(err))
	}
	if headers != nil {
		if missing := parser.MissingColumns(kind, headers); len(missing) > 0 {
			return helper.JsonValidationError(c, "Missing required columns: "+strings.Join(missing, ", "), map[string][]string{
				"csv": {"missing columns: " + strings.Join(missing, ", ")},
			})
		}
	}

	sum, err := ctl.Importer.Import(c.UserContext(), kind, rows, service.Options{
		Upsert:        req.Upsert,
		DryRun:        req.DryRun,
		DefaultStatus: model.ReviewStatus(req.DefaultStatus),
	})
	switch {
	case errors.Is(err, parser.ErrNoRows):
		return helper.JsonValidationError(c, "Provide at least one row", map[string][]string{"rows": {"empty"}})
	case errors.Is(err, service.ErrTooManyRows):
		return helper.JsonValidationError(c, err.Error(), map[string][]string{"rows": {err.Error()}})
	case err != nil:
		log.Printf("[ERROR] import %s: %v", kind, err)
		return helper.JsonInternal(c)
	}

	msg := "Import completed"
	if req.DryRun {
		msg = "Dry run completed"
	}
	return helper.JsonOK(c, msg, sum)
}

// readRequest accepts a JSON body ({rows|csv, upsert, dry_run,
// default_status}) or a raw text/csv body with options in the query string.
// headers is non-nil only for CSV input.
func (ctl *ImportController) readRequest(c *fiber.Ctx) (req dto.ImportRequest, rows []parser.Row, headers []string, err error) {
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), "text/csv") {
		req.Upsert = boolQuery(c, "upsert")
		req.DryRun = boolQuery(c, "dry_run")
		req.DefaultStatus = c.Query("default_status")
		req.CSV = string(c.Body())
	} else if err := c.BodyParser(&req); err != nil {
		return req, nil, nil, badRequest("Malformed payload", "body", "must be JSON with rows or csv")
	}

	hasRows, hasCSV := len(req.Rows) > 0, strings.TrimSpace(req.CSV) != ""
	switch {
	case hasRows && hasCSV:
		return req, nil, nil, badRequest("Send either rows or csv, not both", "rows", "conflicts with csv")
	case hasCSV:
		headers, rows, err = parser.ParseCSVString(req.CSV)
		if err != nil && !errors.Is(err, parser.ErrNoRows) {
			return req, nil, nil, badRequest("Malformed CSV", "csv", err.Error())
		}
		if headers == nil {
			headers = []string{}
		}
	case hasRows:
		rows = make([]parser.Row, 0, len(req.Rows))
		for _, r := range req.Rows {
			rows = append(rows, parser.Row(r))
		}
	}
	return req, rows, headers, nil
}

type requestError struct {
	msg    string
	fields map[string][]string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg, field, detail string) error {
	return &requestError{msg: msg, fields: map[string][]string{field: {detail}}}
}

func boolQuery(c *fiber.Ctx, key string) bool {
	v := helper.ParseBoolPtr(c.Query(key))
	return v != nil && *v
}
