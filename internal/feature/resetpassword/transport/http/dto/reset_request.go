// Package dto はパスワードリセットフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SendResetReq は/reset-passwordエンドポイントのリクエストボディを表します。
type SendResetReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetReq は/reset-password/reset/:tokenエンドポイントのリクエストボディを表します。
type ResetReq struct {
	Password string `json:"password" binding:"required,min=8,max=64"`
}
