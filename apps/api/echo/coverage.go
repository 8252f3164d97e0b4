package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/coverage"
)

type coverageApi struct {
	svc        coverage.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerCoverageAPI(
	g *echo.Group,
	svc coverage.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := coverageApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	cg := g.Group("/coverage")
	cg.GET("/academic-health", api.academicHealth)
	cg.GET("/report-history", api.reportHistory)
}

// Handlers

func (api *coverageApi) academicHealth(ctx echo.Context) error {
	var q AcademicHealthQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to AcademicHealthQuery")
	}
	if err := q.Validate(api.validate, api.translator); err != nil {
		return err
	}

	rollup, err := api.svc.AcademicHealth(ctx.Request().Context(), q.Query())
	if err != nil {
		return errors.Wrap(err, "computing academic health")
	}
	return ctx.JSON(http.StatusOK, rollup)
}

func (api *coverageApi) reportHistory(ctx echo.Context) error {
	var q ReportHistoryQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ReportHistoryQuery")
	}
	if err := q.Validate(api.validate, api.translator); err != nil {
		return err
	}

	rollup, err := api.svc.ReportHistory(ctx.Request().Context(), q.Query())
	if err != nil {
		return errors.Wrap(err, "computing report history")
	}
	return ctx.JSON(http.StatusOK, rollup)
}
