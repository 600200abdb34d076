package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	authhandler "datadvisor_backend/internal/feature/auth/transport/handler"
	authmw "datadvisor_backend/internal/feature/auth/transport/middleware"
	confirmhandler "datadvisor_backend/internal/feature/emailconfirm/transport/handler"
	resethandler "datadvisor_backend/internal/feature/resetpassword/transport/handler"
	usershandler "datadvisor_backend/internal/feature/users/transport/handler"
	"datadvisor_backend/internal/platform/http/handler"
	"datadvisor_backend/internal/shared/ratelimiter"
)

// Handlers groups every feature handler the router mounts.
type Handlers struct {
	Auth          *authhandler.AuthHandler
	Confirmations *confirmhandler.ConfirmationHandler
	Resets        *resethandler.ResetHandler
	Users         *usershandler.UsersHandler
}

func NewRouter(h Handlers, guard *authmw.Guard) *gin.Engine {
	r := gin.Default()

	// 認証系エンドポイントのブルートフォース対策
	limiter := ratelimiter.Middleware(ratelimiter.NewRateLimiter(10, time.Minute))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 新規ユーザー登録とログイン・ログアウト
	auth := r.Group("/auth", limiter)
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/signin", h.Auth.Signin)
		auth.POST("/signout", h.Auth.Signout)
	}

	// メール確認
	// 確認リンクはメールで届くため、confirmは認証不要
	r.POST("/email-confirmation", guard.RequireUser(), h.Confirmations.Send)
	r.POST("/email-confirmation/confirm/:token", h.Confirmations.Confirm)

	// パスワードリセット（認証不要、レートリミットあり）
	reset := r.Group("/reset-password", limiter)
	{
		reset.POST("", h.Resets.Send)
		reset.POST("/reset/:token", h.Resets.Reset)
	}

	// ユーザーリソース
	// 一覧は管理者のみ、個別リソースは所有者または管理者
	users := r.Group("/users")
	{
		users.GET("", guard.RequireUser(entity.RoleAdmin), h.Users.List)
		users.GET("/:id", guard.RequireUser(), guard.RequireOwner("id"), h.Users.Get)
		users.PATCH("/:id", guard.RequireUser(), guard.RequireOwner("id"), h.Users.Update)
		users.DELETE("/:id", guard.RequireUser(), guard.RequireOwner("id"), h.Users.Delete)
	}

	return r
}
