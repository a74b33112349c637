package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const tokenContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// No expiry is set: tokens live until the signing secret rotates, matching
// the legacy contract this API replaces.
type Claims struct {
	jwt.StandardClaims
	Role user.Role `json:"role"`
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:   conf.AppName,
			Subject:  usr.ID,
			IssuedAt: time.Now().Unix(),
		},
		Role: usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	if conf.SecretKey == "" {
		return "", core.NewConfigError("JWT secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// authMiddleware verifies the bearer token before any handler runs.
// An unconfigured secret is a 503 ConfigError, distinct from a 401.
func authMiddleware(conf *core.Config) echo.MiddlewareFunc {
	jwtMW := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if conf.SecretKey == "" {
			return func(ctx echo.Context) error {
				return core.NewConfigError("JWT secret not configured")
			}
		}
		return jwtMW(next)
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// rolesMiddleware enforces a typed role allow-list on top of authMiddleware.
// An empty list only requires authentication.
func rolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if len(roles) == 0 || claims.Role.In(roles) {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}
