package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

type authAPI struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authAPI{opts: opts}

	ag := g.Group("/auth")
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/reset-password", api.resetPassword)
}

// LoginRequest is the login credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

// TokenResponse wraps a signed JWT.
type TokenResponse struct {
	Token string `json:"token"`
}

func (api authAPI) signup(ctx echo.Context) error {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return err
	}
	if err := nu.Validate(api.opts.Validate); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.Signup(ctx.Request().Context(), nu)
	if err != nil {
		return err
	}

	token, err := GenerateToken(GetUserClaims(usr, api.opts.Conf), api.opts.Conf)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api authAPI) login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.opts.Validate); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.Authenticate(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := GenerateToken(GetUserClaims(usr, api.opts.Conf), api.opts.Conf)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api authAPI) resetPassword(ctx echo.Context) error {
	var req user.ResetUserPassword
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.opts.Validate); err != nil {
		return err
	}

	if err := api.opts.UserSvc.ResetPassword(ctx.Request().Context(), req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}
