// Package dto はusersフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// UpdateUserReq はPATCH /users/:idエンドポイントのリクエストボディを表します。
// すべてのフィールドは任意で、省略されたフィールドは変更されません。
type UpdateUserReq struct {
	LastName  string `json:"lastName" binding:"omitempty,max=64"`
	FirstName string `json:"firstName" binding:"omitempty,max=64"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"omitempty,min=8,max=64"`
}
