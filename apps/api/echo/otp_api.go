package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
)

type otpAPI struct {
	opts *Options
}

func registerOTPAPI(g *echo.Group, opts *Options) {
	api := otpAPI{opts: opts}

	og := g.Group("/otp")
	og.POST("/send", api.send)
	og.POST("/resend", api.resend)
	og.POST("/verify", api.verify)
}

// OTPRequest asks for a code to be mailed to an address.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *OTPRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

// OTPVerifyRequest submits a received code for verification.
type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required"`
}

func (r *OTPVerifyRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.Code = core.CleanString(r.Code)
	return validate.Struct(r)
}

func (api otpAPI) request(ctx echo.Context, successMsg string) error {
	var req OTPRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.opts.Validate); err != nil {
		return err
	}

	if err := api.opts.OTPSvc.Request(ctx.Request().Context(), req.Email); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": successMsg, "email": req.Email})
}

func (api otpAPI) send(ctx echo.Context) error {
	return api.request(ctx, "OTP sent successfully")
}

func (api otpAPI) resend(ctx echo.Context) error {
	return api.request(ctx, "OTP resent successfully")
}

func (api otpAPI) verify(ctx echo.Context) error {
	var req OTPVerifyRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.opts.Validate); err != nil {
		return err
	}

	if err := api.opts.OTPSvc.Verify(ctx.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "OTP verified successfully", "email": req.Email})
}
