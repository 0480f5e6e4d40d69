package api

import (
	"context"

	"canteen-client/internal/model"
)

// wireUserFields is the set of user attributes the server may send.
type wireUserFields struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// wireUser accepts both user payload shapes the server produces: a flat
// user object, or the same fields nested under a "user" key. The shape
// ambiguity stops here; consumers only ever see model.User.
type wireUser struct {
	wireUserFields
	Nested *wireUserFields `json:"user"`
}

// normalize maps whichever shape arrived into the canonical user.
// Returns nil when the payload carried no user at all.
func (w *wireUser) normalize() *model.User {
	fields := w.wireUserFields
	if w.Nested != nil {
		fields = *w.Nested
	}
	if fields.ID == 0 && fields.Username == "" && fields.Email == "" {
		return nil
	}
	return &model.User{
		ID:          fields.ID,
		Username:    fields.Username,
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		Email:       fields.Email,
		IsStaff:     fields.IsStaff,
		IsSuperuser: fields.IsSuperuser,
	}
}

// CurrentUser returns the authenticated user, or nil when the session is
// not (or no longer) authenticated. Only transport failures return an
// error; a non-2xx response means "not logged in".
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var payload wireUser
	resp, err := c.http.R().SetContext(ctx).SetResult(&payload).Get("/api/auth/user/")
	if err != nil {
		return nil, c.transportError("fetch current user", err)
	}
	if !resp.IsSuccess() {
		return nil, nil
	}
	return payload.normalize(), nil
}

// Login authenticates with email, password and user type ("student" or
// "staff"). Returns the normalised user on success.
func (c *Client) Login(ctx context.Context, email, password, userType string) (*model.User, error) {
	req, err := c.mutating(ctx)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success bool `json:"success"`
		wireUser
	}
	resp, err := req.
		SetBody(map[string]string{
			"email":     email,
			"password":  password,
			"user_type": userType,
		}).
		SetResult(&payload).
		Post("/api/auth/login/")
	if err != nil {
		return nil, c.transportError("login", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}

	user := payload.normalize()
	if user == nil {
		return nil, &model.APIError{StatusCode: resp.StatusCode(), Message: "login response carried no user"}
	}

	c.logger.Info().Str("username", user.Username).Msg("logged in")
	return user, nil
}

// Logout terminates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.mutating(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Post("/api/auth/logout/")
	if err != nil {
		return c.transportError("logout", err)
	}
	if !resp.IsSuccess() {
		return c.serverError(resp)
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, r model.RegisterRequest) error {
	req, err := c.mutating(ctx)
	if err != nil {
		return err
	}

	resp, err := req.SetBody(r).Post("/api/auth/register/")
	if err != nil {
		return c.transportError("register", err)
	}
	if !resp.IsSuccess() {
		return c.serverError(resp)
	}
	return nil
}
