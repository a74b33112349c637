package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
)

type academicsAPI struct {
	opts *Options
}

func registerAcademicsAPI(g *echo.Group, jwt, staff echo.MiddlewareFunc, opts *Options) {
	api := academicsAPI{opts: opts}

	ag := g.Group("/assessments", jwt)
	ag.GET("", api.listAssessments)
	ag.POST("", api.createAssessment, staff)

	rg := g.Group("/remedial", jwt)
	rg.GET("", api.listPlans)
	rg.POST("", api.assignPlan, staff)
	rg.PATCH("/:id", api.updatePlanProgress, staff)

	resg := g.Group("/resources", jwt)
	resg.GET("", api.listResources)
	resg.POST("", api.createResource, staff)
}

func (api academicsAPI) listAssessments(ctx echo.Context) error {
	assessments, err := api.opts.AssessmentSvc.Query(ctx.Request().Context(), ctx.QueryParam("studentId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assessments)
}

func (api academicsAPI) createAssessment(ctx echo.Context) error {
	var na assessment.NewAssessment
	if err := ctx.Bind(&na); err != nil {
		return err
	}
	if err := na.Validate(api.opts.Validate); err != nil {
		return err
	}

	a, err := api.opts.AssessmentSvc.Create(ctx.Request().Context(), na)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api academicsAPI) listPlans(ctx echo.Context) error {
	plans, err := api.opts.RemedialSvc.Query(ctx.Request().Context(), ctx.QueryParam("studentId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api academicsAPI) assignPlan(ctx echo.Context) error {
	var np remedial.NewPlan
	if err := ctx.Bind(&np); err != nil {
		return err
	}
	if err := np.Validate(api.opts.Validate); err != nil {
		return err
	}

	p, err := api.opts.RemedialSvc.Assign(ctx.Request().Context(), np)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api academicsAPI) updatePlanProgress(ctx echo.Context) error {
	var pu remedial.ProgressUpdate
	if err := ctx.Bind(&pu); err != nil {
		return err
	}
	if err := pu.Validate(api.opts.Validate); err != nil {
		return err
	}

	p, err := api.opts.RemedialSvc.UpdateProgress(ctx.Request().Context(), ctx.Param("id"), *pu.Progress)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api academicsAPI) listResources(ctx echo.Context) error {
	resources, err := api.opts.ResourceSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api academicsAPI) createResource(ctx echo.Context) error {
	var nr resource.NewResource
	if err := ctx.Bind(&nr); err != nil {
		return err
	}
	if err := nr.Validate(api.opts.Validate); err != nil {
		return err
	}

	r, err := api.opts.ResourceSvc.Create(ctx.Request().Context(), nr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, r)
}
