package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

type studentAPI struct {
	opts *Options
}

func registerStudentAPI(g *echo.Group, jwt, staff echo.MiddlewareFunc, opts *Options) {
	api := studentAPI{opts: opts}

	sg := g.Group("/students", jwt)
	// the shared surface is authenticated-any-role; writes are staff-only
	sg.GET("/me", api.me)
	sg.GET("", api.list)

	sg.POST("", api.create, staff)
	sg.POST("/link", api.link, staff)
	sg.POST("/unlink", api.unlink, staff)
	sg.GET("/:id", api.retrieve, staff)
	sg.DELETE("/:id", api.delete, staff)
}

// LinkedUser is the account summary embedded in a StudentDetail.
type LinkedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StudentDetail is a Student with its academic history and linked account.
// User is omitted when the student is unlinked or the link is dangling.
type StudentDetail struct {
	student.Student
	Assessments   []assessment.Assessment `json:"assessments"`
	RemedialPlans []remedial.Plan         `json:"remedial_plans"`
	User          *LinkedUser             `json:"user,omitempty"`
}

// UnlinkRequest identifies the student to detach.
type UnlinkRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

func (r *UnlinkRequest) Validate(validate *validator.Validate) error {
	r.StudentID = core.CleanString(r.StudentID)
	return validate.Struct(r)
}

func (api studentAPI) detail(ctx echo.Context, std student.Student) (StudentDetail, error) {
	c := ctx.Request().Context()

	assessments, err := api.opts.AssessmentSvc.Query(c, std.ID)
	if err != nil {
		return StudentDetail{}, errors.Wrap(err, "querying assessments")
	}
	plans, err := api.opts.RemedialSvc.Query(c, std.ID)
	if err != nil {
		return StudentDetail{}, errors.Wrap(err, "querying remedial plans")
	}

	detail := StudentDetail{
		Student:       std,
		Assessments:   assessments,
		RemedialPlans: plans,
	}
	if std.Linked() {
		usr, err := api.opts.UserSvc.GetByID(c, std.UserID.String)
		switch errors.Cause(err) {
		case nil:
			detail.User = &LinkedUser{ID: usr.ID, Name: usr.Name, Email: usr.Email}
		case user.ErrNotFound:
			// dangling link; present the student without an account
		default:
			return StudentDetail{}, errors.Wrap(err, "finding linked user")
		}
	}
	return detail, nil
}

func (api studentAPI) list(ctx echo.Context) error {
	students, err := api.opts.StudentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api studentAPI) create(ctx echo.Context) error {
	var ns student.NewStudent
	if err := ctx.Bind(&ns); err != nil {
		return err
	}
	if err := ns.Validate(api.opts.Validate); err != nil {
		return err
	}

	std, err := api.opts.StudentSvc.Create(ctx.Request().Context(), ns)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api studentAPI) retrieve(ctx echo.Context) error {
	std, err := api.opts.StudentSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	detail, err := api.detail(ctx, std)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api studentAPI) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	std, err := api.opts.StudentSvc.GetByUserID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	detail, err := api.detail(ctx, std)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api studentAPI) link(ctx echo.Context) error {
	var ls student.LinkStudent
	if err := ctx.Bind(&ls); err != nil {
		return err
	}
	if err := ls.Validate(api.opts.Validate); err != nil {
		return err
	}

	userID, err := api.opts.StudentSvc.Link(ctx.Request().Context(), ls)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "userId": userID})
}

func (api studentAPI) unlink(ctx echo.Context) error {
	var req UnlinkRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.opts.Validate); err != nil {
		return err
	}

	if err := api.opts.StudentSvc.Unlink(ctx.Request().Context(), req.StudentID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (api studentAPI) delete(ctx echo.Context) error {
	if err := api.opts.StudentSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
