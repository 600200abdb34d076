// Package handler はメール確認フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"datadvisor_backend/internal/api"
	"datadvisor_backend/internal/feature/auth/domain/entity"
	"datadvisor_backend/internal/feature/auth/transport/middleware"
	"datadvisor_backend/internal/feature/emailconfirm/usecase"
)

// ConfirmationUsecase はメール確認操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ConfirmationUsecase interface {
	// Send は確認リンクを対象アカウントへメールで送信します。
	Send(ctx context.Context, user *entity.User) error
	// Confirm はトークンを検証し、対象アカウントを確認済みにします。
	Confirm(ctx context.Context, token string) error
}

// ConfirmationHandler はメール確認操作のHTTPリクエストを処理します。
type ConfirmationHandler struct {
	confirmations ConfirmationUsecase
}

// NewConfirmationHandler はConfirmationHandlerの新しいインスタンスを生成します。
func NewConfirmationHandler(confirmations ConfirmationUsecase) *ConfirmationHandler {
	return &ConfirmationHandler{confirmations: confirmations}
}

// Send は確認メールの再送APIエンドポイントを処理します。
// 認証済みユーザー自身のアカウントが対象です。
// - 既に確認済みの場合は409を返却
// - 成功時は204を返却
func (h *ConfirmationHandler) Send(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not signed in"})
		return
	}

	if err := h.confirmations.Send(c.Request.Context(), user); err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyConfirmed) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already confirmed"})
			return
		}
		slog.Error("confirmation email send failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to send confirmation email"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Confirm はトークンによるメール確認APIエンドポイントを処理します。
// - 既に確認済みのアカウントのトークンは410を返却（再確認は恒久的に不可）
// - 署名不正・期限切れ・対象不在は詳細を隠して400を返却
// - 成功時は204を返却
func (h *ConfirmationHandler) Confirm(c *gin.Context) {
	token := c.Param("token")

	if err := h.confirmations.Confirm(c.Request.Context(), token); err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyConfirmed):
			c.JSON(http.StatusGone, api.ErrorResponse{Error: "email already confirmed"})
		case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrUserNotFound):
			// トークンが不正なのかアカウントが消えたのかは公開しない
			slog.Warn("email confirmation rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid or expired token"})
		default:
			slog.Error("email confirmation failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "confirmation failed"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
