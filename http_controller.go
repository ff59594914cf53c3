package auth

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the JSON auth surface on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Token, controller.TokenCreate).
		SetName("token.post")

	app.
		Post(controller.Routes.Refresh, controller.TokenRefresh).
		SetName("token-refresh.post")

	app.
		Post(controller.Routes.Verify, controller.TokenVerify).
		SetName("token-verify.post")

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Get(controller.Routes.Me, controller.MeShow).
		SetName("me.get")
	app.Patch(controller.Routes.Me, controller.MeUpdate).
		SetName("me.patch")
	app.Delete(controller.Routes.Me, controller.MeDelete).
		SetName("me.delete")

	app.Put(controller.Routes.Password, controller.PasswordUpdate).
		SetName("me-password.put")
}

type AuthControllerRoutes struct {
	Token    string
	Refresh  string
	Verify   string
	Register string
	Me       string
	Password string
}

type AuthController struct {
	Debug    bool
	Logger   Logger
	Routes   *AuthControllerRoutes
	Auther   Authenticator
	Accounts *Accounts
	Config   Config
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Token:    "/auth/token",
			Refresh:  "/auth/refresh",
			Verify:   "/auth/verify",
			Register: "/users/register",
			Me:       "/users/me",
			Password: "/users/me/password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Accounts == nil {
		panic("Missing Accounts service in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerAccounts(accounts *Accounts) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Accounts = accounts
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// TokenResponse is the body returned by token issuing endpoints
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// VerifyResponse reports the outcome of a token verification
type VerifyResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
}

// UserResponse is the public view of an account. It never carries the
// password hash.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body returned on any failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
	Status string `json:"status,omitempty"`
}

func newUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// PasswordChangeRequest payload
type PasswordChangeRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
}

// Validate will validate the payload
func (r PasswordChangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// ProfileUpdateRequest payload. Pointers distinguish absent fields from
// empty ones.
type ProfileUpdateRequest struct {
	Username *string `form:"username" json:"username"`
}

// Validate will validate the payload
func (r ProfileUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.NilOrNotEmpty, validation.Length(3, 50)),
	)
}

func (a *AuthController) TokenCreate(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("token create parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: "Error parsing body"})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("token create validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: err.Error()})
	}

	if a.Debug {
		fmt.Println("======= AUTH TOKEN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{"username": payload.Username}))
		fmt.Println("=========================")
	}

	res := a.Auther.Authenticate(ctx.Context(), payload.Username, payload.Password)
	if res.IsFailure() {
		return a.renderFailure(ctx, res.Status(), res.Message())
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: res.Data(),
		TokenType:   strings.ToLower(a.Config.GetAuthScheme()),
	})
}

func (a *AuthController) TokenRefresh(ctx router.Context) error {
	token, err := a.bearerToken(ctx)
	if err != nil {
		return ctx.JSON(router.StatusUnauthorized, ErrorResponse{
			Detail: err.Error(),
			Status: string(StatusInvalidToken),
		})
	}

	res := a.Auther.Refresh(ctx.Context(), token)
	if res.IsFailure() {
		return a.renderFailure(ctx, res.Status(), res.Message())
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: res.Data(),
		TokenType:   strings.ToLower(a.Config.GetAuthScheme()),
	})
}

func (a *AuthController) TokenVerify(ctx router.Context) error {
	token, err := a.bearerToken(ctx)
	if err != nil {
		return ctx.JSON(router.StatusUnauthorized, ErrorResponse{
			Detail: err.Error(),
			Status: string(StatusInvalidToken),
		})
	}

	res := a.Auther.VerifyToken(token)
	if res.IsFailure() {
		return ctx.JSON(httpStatusFor(res.Status()), VerifyResponse{Valid: false})
	}

	return ctx.JSON(router.StatusOK, VerifyResponse{
		Valid:    true,
		Username: res.Data(),
	})
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: "Error parsing body"})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: err.Error()})
	}

	res := a.Accounts.RegisterUser(ctx.Context(), payload.Username, payload.Password)
	if res.IsFailure() {
		return a.renderFailure(ctx, res.Status(), res.Message())
	}

	return ctx.JSON(router.StatusCreated, newUserResponse(res.Data()))
}

func (a *AuthController) MeShow(ctx router.Context) error {
	user, failed := a.currentUser(ctx)
	if failed != nil {
		return failed
	}

	return ctx.JSON(router.StatusOK, newUserResponse(user))
}

func (a *AuthController) PasswordUpdate(ctx router.Context) error {
	user, failed := a.currentUser(ctx)
	if failed != nil {
		return failed
	}

	payload := new(PasswordChangeRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password update parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: "Error parsing body"})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("password update validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: err.Error()})
	}

	res := a.Accounts.ChangePassword(ctx.Context(), user.ID.String(), payload.CurrentPassword, payload.NewPassword)
	if res.IsFailure() {
		return a.renderFailure(ctx, res.Status(), res.Message())
	}

	return ctx.JSON(router.StatusOK, MessageResponse{Message: res.Message()})
}

func (a *AuthController) MeUpdate(ctx router.Context) error {
	user, failed := a.currentUser(ctx)
	if failed != nil {
		return failed
	}

	payload := new(ProfileUpdateRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("profile update parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: "Error parsing body"})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("profile update validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, ErrorResponse{Detail: err.Error()})
	}

	res := a.Accounts.UpdateProfile(ctx.Context(), user.ID.String(), UserPatch{
		Username: payload.Username,
	})
	if res.IsFailure() {
		return a.renderFailure(ctx, res.Status(), res.Message())
	}

	return ctx.JSON(router.StatusOK, newUserResponse(res.Data()))
}

func (a *AuthController) MeDelete(ctx router.Context) error {
	user, failed := a.currentUser(ctx)
	if failed != nil {
		return failed
	}

	res := a.Accounts.DeleteAccount(WithContext(ctx.Context(), user), user.ID.String())
	if res.IsFailure() {
		return a.renderFailure(ctx, res.Status(), res.Message())
	}

	return ctx.JSON(router.StatusOK, MessageResponse{Message: res.Message()})
}

// currentUser resolves the bearer token to a stored account. On failure it
// writes the error response and returns it, so handlers can bail with a
// plain nil check.
func (a *AuthController) currentUser(ctx router.Context) (*User, error) {
	token, err := a.bearerToken(ctx)
	if err != nil {
		return nil, ctx.JSON(router.StatusUnauthorized, ErrorResponse{
			Detail: err.Error(),
			Status: string(StatusInvalidToken),
		})
	}

	res := a.Auther.ResolveUser(ctx.Context(), token)
	if res.IsFailure() {
		return nil, a.renderFailure(ctx, res.Status(), res.Message())
	}

	return res.Data(), nil
}

func (a *AuthController) bearerToken(ctx router.Context) (string, error) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return "", fmt.Errorf("missing %s header", router.HeaderAuthorization)
	}

	scheme := a.Config.GetAuthScheme()
	l := len(scheme)

	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
		return strings.TrimSpace(header[l:]), nil
	}

	return "", fmt.Errorf("malformed %s header", router.HeaderAuthorization)
}

func (a *AuthController) renderFailure(ctx router.Context, status Status, detail string) error {
	return ctx.JSON(httpStatusFor(status), ErrorResponse{
		Detail: detail,
		Status: string(status),
	})
}

// httpStatusFor maps an auth status to the HTTP code the JSON surface
// responds with.
func httpStatusFor(status Status) int {
	switch status {
	case StatusSuccess:
		return router.StatusOK
	case StatusUserNotFound:
		return router.StatusNotFound
	case StatusUserAlreadyExists:
		return router.StatusConflict
	case StatusWrongPassword, StatusInvalidToken, StatusTokenExpired:
		return router.StatusUnauthorized
	case StatusDBConnectionFailed:
		return router.StatusServiceUnavailable
	default:
		return router.StatusBadRequest
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field to message map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}
