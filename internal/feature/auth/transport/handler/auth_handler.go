// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"datadvisor_backend/internal/api"
	"datadvisor_backend/internal/feature/auth/domain/entity"
	"datadvisor_backend/internal/feature/auth/transport/http/dto"
	"datadvisor_backend/internal/feature/auth/usecase"
)

// SessionCookieName はセッションIDを運ぶCookieの名前です。
const SessionCookieName = "session_id"

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、確認メールの送信を開始します。
	Signup(ctx context.Context, lastName, firstName, email, password string) (*entity.User, error)
	// Signin はユーザーを認証し、成功時にサーバーサイドセッションを確立します。
	Signin(ctx context.Context, email, password string) (*entity.User, *entity.Session, error)
	// Signout は指定されたセッションを破棄します。
	Signout(ctx context.Context, sessionID string) error
}

// CookieOptions はセッションCookieの属性を保持します。
type CookieOptions struct {
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth   AuthUsecase
	cookie CookieOptions
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は201と公開ユーザー表現を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.LastName, req.FirstName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			slog.Warn("signup rejected: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already exists"})
			return
		}
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.NewUserResponse(user))
}

// Signin はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをSigninReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（未知のメールと誤パスワードは区別しない）
// - 成功時はセッションCookieを設定し、200と公開ユーザー表現を返却
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signin validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	user, session, err := h.auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("signin failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		return
	}

	c.SetCookie(SessionCookieName, session.ID, int(h.cookie.MaxAge.Seconds()), "/", "",
		h.cookie.Secure, h.cookie.HTTPOnly)
	slog.Info("user signin successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.NewUserResponse(user))
}

// Signout はログアウトAPIエンドポイントを処理します。
// - セッションCookieが無い、またはセッションが未知の場合は401を返却
// - 成功時はセッションを破棄し、Cookieを無効化して204を返却
func (h *AuthHandler) Signout(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not signed in"})
		return
	}
	if err := h.auth.Signout(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not signed in"})
			return
		}
		slog.Error("signout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "signout failed"})
		return
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", h.cookie.Secure, h.cookie.HTTPOnly)
	c.Status(http.StatusNoContent)
}
