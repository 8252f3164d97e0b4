package echoapi

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
)

// Dates are validated by the coverage engine, which knows the defaults and limits.
type (
	AcademicHealthQuery struct {
		StartDate        string `query:"startDate"`
		EndDate          string `query:"endDate"`
		AssignedToUserID string `query:"assignedToUserId" validate:"omitempty,identifier"`
		SiteID           string `query:"siteId" validate:"omitempty,identifier"`
	}

	ReportHistoryQuery struct {
		StartDate        string `query:"startDate"`
		EndDate          string `query:"endDate"`
		AssignedToUserID string `query:"assignedToUserId" validate:"omitempty,identifier"`
		ClassID          string `query:"classId" validate:"omitempty,identifier"`
		TemplateID       string `query:"templateId" validate:"omitempty,identifier"`
	}
)

func validate(validate *validator.Validate, translator ut.Translator, s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return core.TranslateValidationErrors(vErrs, translator)
		}
		return errors.Wrap(err, "validating query")
	}
	return nil
}

func (q AcademicHealthQuery) Validate(v *validator.Validate, translator ut.Translator) error {
	return validate(v, translator, q)
}

func (q AcademicHealthQuery) Query() coverage.Query {
	return coverage.Query{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		AssigneeID: q.AssignedToUserID,
		ScopeID:    q.SiteID,
	}
}

func (q ReportHistoryQuery) Validate(v *validator.Validate, translator ut.Translator) error {
	return validate(v, translator, q)
}

func (q ReportHistoryQuery) Query() coverage.Query {
	return coverage.Query{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		AssigneeID: q.AssignedToUserID,
		ScopeID:    q.ClassID,
		TemplateID: q.TemplateID,
	}
}
