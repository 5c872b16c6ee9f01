//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"quotedesk/internal/handler/api"
	reqdto "quotedesk/internal/handler/dto/request"
	resdto "quotedesk/internal/handler/dto/response"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/commands"
	"quotedesk/internal/usecase/queries"
)

// Function-field fakes: each test pins just the method it exercises.

type fakeAuthCommands struct {
	registerFn       func(ctx context.Context, req reqdto.RegisterRequest) (*queries.UserView, error)
	loginFn          func(ctx context.Context, req reqdto.LoginRequest) (*commands.LoginResult, error)
	refreshFn        func(ctx context.Context, refreshToken string) (*commands.TokenPair, error)
	logoutFn         func(ctx context.Context, refreshToken string) error
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, token, newPassword string) error
	changePasswordFn func(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

func (f *fakeAuthCommands) Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.UserView, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAuthCommands) Login(ctx context.Context, req reqdto.LoginRequest) (*commands.LoginResult, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeAuthCommands) Refresh(ctx context.Context, refreshToken string) (*commands.TokenPair, error) {
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeAuthCommands) Logout(ctx context.Context, refreshToken string) error {
	return f.logoutFn(ctx, refreshToken)
}

func (f *fakeAuthCommands) ForgotPassword(ctx context.Context, email string) error {
	return f.forgotPasswordFn(ctx, email)
}

func (f *fakeAuthCommands) ResetPassword(ctx context.Context, token, newPassword string) error {
	return f.resetPasswordFn(ctx, token, newPassword)
}

func (f *fakeAuthCommands) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	return f.changePasswordFn(ctx, userID, currentPassword, newPassword)
}

type fakeUserQueries struct {
	getCurrentUserFn func(ctx context.Context, userID uuid.UUID) (*queries.UserView, error)
}

func (f *fakeUserQueries) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.UserView, error) {
	return f.getCurrentUserFn(ctx, userID)
}

func performJSON(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type AuthHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeAuthCommands
	queries  *fakeUserQueries
	userID   uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &fakeAuthCommands{}
	s.queries = &fakeUserQueries{}
	s.userID = uuid.New()

	handler := api.NewAuthHandler(s.commands, s.queries)

	s.router.POST("/auth/register", handler.Register)
	s.router.POST("/auth/login", handler.Login)
	s.router.POST("/auth/refresh", handler.Refresh)
	s.router.POST("/auth/logout", handler.Logout)
	s.router.POST("/auth/forgot-password", handler.ForgotPassword)
	s.router.POST("/auth/reset-password", handler.ResetPassword)
	s.router.POST("/auth/change-password", func(c *gin.Context) {
		// Stand-in for the auth middleware.
		c.Set("user_id", s.userID)
		handler.ChangePassword(c)
	})
	s.router.GET("/users/me", func(c *gin.Context) {
		c.Set("user_id", s.userID)
		handler.Me(c)
	})
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	body := map[string]any{"email": "new@example.com", "password": "password123", "name": "New Admin"}

	s.Run("201 on success", func() {
		s.commands.registerFn = func(_ context.Context, req reqdto.RegisterRequest) (*queries.UserView, error) {
			s.Equal("new@example.com", req.Email)
			return &queries.UserView{ID: uuid.New(), Email: req.Email, Name: req.Name}, nil
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/register", body)

		s.Equal(http.StatusCreated, rec.Code)

		var resp resdto.UserResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("new@example.com", resp.Email)
	})

	s.Run("409 on duplicate email", func() {
		s.commands.registerFn = func(context.Context, reqdto.RegisterRequest) (*queries.UserView, error) {
			return nil, errs.ErrEmailTaken
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/register", body)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("400 on malformed body", func() {
		rec := performJSON(s.router, http.MethodPost, "/auth/register", map[string]any{"email": "not-an-email"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	body := map[string]any{"email": "admin@example.com", "password": "password123"}

	s.Run("200 with token pair", func() {
		s.commands.loginFn = func(context.Context, reqdto.LoginRequest) (*commands.LoginResult, error) {
			return &commands.LoginResult{
				TokenPair: commands.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
				User:      &queries.UserView{ID: s.userID, Email: "admin@example.com"},
			}, nil
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/login", body)

		s.Equal(http.StatusOK, rec.Code)

		var resp resdto.LoginResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("access", resp.AccessToken)
		s.Equal("refresh", resp.RefreshToken)
		s.Equal("admin@example.com", resp.User.Email)
	})

	s.Run("401 on bad credentials", func() {
		s.commands.loginFn = func(context.Context, reqdto.LoginRequest) (*commands.LoginResult, error) {
			return nil, errs.ErrInvalidCredentials
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/login", body)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestRefresh() {
	s.Run("200 with rotated pair", func() {
		s.commands.refreshFn = func(_ context.Context, token string) (*commands.TokenPair, error) {
			s.Equal("old-refresh", token)
			return &commands.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "old-refresh"})

		s.Equal(http.StatusOK, rec.Code)

		var resp resdto.TokenPairResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("new-refresh", resp.RefreshToken)
	})

	s.Run("401 on superseded token", func() {
		s.commands.refreshFn = func(context.Context, string) (*commands.TokenPair, error) {
			return nil, errs.ErrTokenValidation
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "stale"})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestForgotPassword() {
	s.Run("200 regardless of whether the email exists", func() {
		s.commands.forgotPasswordFn = func(context.Context, string) error { return nil }

		rec := performJSON(s.router, http.MethodPost, "/auth/forgot-password", map[string]any{"email": "ghost@example.com"})
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestResetPassword() {
	body := map[string]any{"token": "reset-token", "new_password": "password456"}

	s.Run("200 on success", func() {
		s.commands.resetPasswordFn = func(context.Context, string, string) error { return nil }

		rec := performJSON(s.router, http.MethodPost, "/auth/reset-password", body)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("401 on consumed token", func() {
		s.commands.resetPasswordFn = func(context.Context, string, string) error {
			return errs.ErrTokenValidation
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/reset-password", body)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestChangePassword() {
	body := map[string]any{"current_password": "old-password", "new_password": "password456"}

	s.Run("200 on success", func() {
		s.commands.changePasswordFn = func(_ context.Context, userID uuid.UUID, _, _ string) error {
			s.Equal(s.userID, userID)
			return nil
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/change-password", body)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("401 on wrong current password", func() {
		s.commands.changePasswordFn = func(context.Context, uuid.UUID, string, string) error {
			return errs.ErrInvalidCredentials
		}

		rec := performJSON(s.router, http.MethodPost, "/auth/change-password", body)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.Run("200 with the current user", func() {
		s.queries.getCurrentUserFn = func(_ context.Context, userID uuid.UUID) (*queries.UserView, error) {
			return &queries.UserView{ID: userID, Email: "admin@example.com", Name: "Admin"}, nil
		}

		rec := performJSON(s.router, http.MethodGet, "/users/me", nil)

		s.Equal(http.StatusOK, rec.Code)

		var resp resdto.UserResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(s.userID, resp.ID)
	})

	s.Run("404 when the user vanished", func() {
		s.queries.getCurrentUserFn = func(context.Context, uuid.UUID) (*queries.UserView, error) {
			return nil, errs.ErrUserNotFound
		}

		rec := performJSON(s.router, http.MethodGet, "/users/me", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
