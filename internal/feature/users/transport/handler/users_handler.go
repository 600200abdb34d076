// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"datadvisor_backend/internal/api"
	"datadvisor_backend/internal/feature/auth/domain/entity"
	"datadvisor_backend/internal/feature/users/transport/http/dto"
	"datadvisor_backend/internal/feature/users/usecase"
)

// UsersUsecase はユーザーリソース操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UsersUsecase interface {
	// GetAll は全ユーザーを取得します。
	GetAll(ctx context.Context) ([]*entity.User, error)
	// GetByID は指定されたIDのユーザーを取得します。
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// Update は指定されたユーザーの属性を更新します。
	Update(ctx context.Context, id string, params usecase.UpdateParams) (*entity.User, error)
	// Delete は指定されたユーザーを削除します。
	Delete(ctx context.Context, id string) error
}

// UsersHandler はユーザーリソースのHTTPリクエストを処理します。
type UsersHandler struct {
	users UsersUsecase
}

// NewUsersHandler はUsersHandlerの新しいインスタンスを生成します。
func NewUsersHandler(users UsersUsecase) *UsersHandler {
	return &UsersHandler{users: users}
}

// List は全ユーザー一覧APIエンドポイントを処理します。管理者専用です。
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		slog.Error("user list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, api.NewUserResponses(users))
}

// Get は単一ユーザー取得APIエンドポイントを処理します。
// - 対象が存在しない場合は404を返却
// - 成功時は200と公開ユーザー表現を返却
func (h *UsersHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("user fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, api.NewUserResponse(user))
}

// Update はユーザー更新APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 対象が存在しない場合は404、メール重複時は409を返却
// - 成功時は200と更新後の公開ユーザー表現を返却
func (h *UsersHandler) Update(c *gin.Context) {
	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), usecase.UpdateParams{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already exists"})
		default:
			slog.Error("user update failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update user"})
		}
		return
	}
	c.JSON(http.StatusOK, api.NewUserResponse(user))
}

// Delete はユーザー削除APIエンドポイントを処理します。
// - 対象が存在しない場合は404を返却
// - 成功時は204を返却
func (h *UsersHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("user delete failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete user"})
		return
	}
	c.Status(http.StatusNoContent)
}
