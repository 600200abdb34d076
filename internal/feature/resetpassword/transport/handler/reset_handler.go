// Package handler はパスワードリセットフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"datadvisor_backend/internal/api"
	"datadvisor_backend/internal/feature/resetpassword/transport/http/dto"
	"datadvisor_backend/internal/feature/resetpassword/usecase"
)

// ResetUsecase はパスワードリセット操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ResetUsecase interface {
	// Send はリセットリンクを指定されたアドレスへメールで送信します。
	Send(ctx context.Context, email string) error
	// Reset はトークンを検証し、対象アカウントのパスワードを更新します。
	Reset(ctx context.Context, token, newPassword string) error
}

// ResetHandler はパスワードリセット操作のHTTPリクエストを処理します。
type ResetHandler struct {
	resets ResetUsecase
}

// NewResetHandler はResetHandlerの新しいインスタンスを生成します。
func NewResetHandler(resets ResetUsecase) *ResetHandler {
	return &ResetHandler{resets: resets}
}

// Send はリセットメール送信APIエンドポイントを処理します。
// アカウントの存在有無を問わず204を返します。未知のメールアドレスで
// レスポンスが変わると、登録済みアドレスの列挙に使われるためです。
func (h *ResetHandler) Send(c *gin.Context) {
	var req dto.SendResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.resets.Send(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			// 未知のアドレスも成功と同じレスポンスにする
			slog.Warn("reset requested for unknown email", "remote_addr", c.ClientIP())
			c.Status(http.StatusNoContent)
			return
		}
		slog.Error("reset email send failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to send reset email"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Reset はパスワード更新APIエンドポイントを処理します。
// - 新パスワードのバリデーションエラー時は400を返却
// - 署名不正・期限切れ・自己無効化・対象不在は詳細を隠して400を返却
// - 成功時は204を返却
func (h *ResetHandler) Reset(c *gin.Context) {
	var req dto.ResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	token := c.Param("token")
	if err := h.resets.Reset(c.Request.Context(), token, req.Password); err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) || errors.Is(err, usecase.ErrUserNotFound) {
			// 失敗理由は公開しない
			slog.Warn("password reset rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid or expired token"})
			return
		}
		slog.Error("password reset failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "reset failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
