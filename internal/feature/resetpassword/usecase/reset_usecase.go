// Package usecase はパスワードリセットフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	authusecase "datadvisor_backend/internal/feature/auth/usecase"

	"golang.org/x/crypto/bcrypt"
)

// UserRepository はこのフィーチャーが必要とするユーザー永続化操作を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdatePassword は指定されたユーザーのパスワードハッシュを更新します。
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenSigner は署名付き期限付きトークンの発行・検証・デコードを抽象化します。
type TokenSigner interface {
	// Issue は指定されたメールアドレスをクレームに持つ署名済みトークンを発行します。
	Issue(email, secret string, ttl time.Duration) (string, error)

	// Verify はトークンの署名と有効期限を検証し、メールアドレスクレームを返します。
	Verify(token, secret string) (string, error)

	// DecodeEmail は署名を検証せずにメールアドレスクレームを抽出します。
	DecodeEmail(token string) (string, error)
}

// Mailer はリセットリンクのメール送信を抽象化します。
type Mailer interface {
	// SendPasswordReset はリセットリンクを指定されたアドレスへ送信します。
	SendPasswordReset(ctx context.Context, to, link string) error
}

// resetUsecase はパスワードリセットのビジネスロジックを実装します。
//
// リセットトークンの署名シークレットは「固定シークレット + 対象アカウントの
// 現在のパスワードハッシュ」で構成されます。パスワードが変更されるとシークレットも
// 変わるため、発行済みのリセットトークンは失効リストなしで自動的に無効になります。
type resetUsecase struct {
	users       UserRepository
	signer      TokenSigner
	mailer      Mailer
	secret      string
	ttl         time.Duration
	saltRounds  int
	frontendURL string
}

// NewResetUsecase はresetUsecaseの新しいインスタンスを生成します。
func NewResetUsecase(users UserRepository, signer TokenSigner, mailer Mailer,
	secret string, ttl time.Duration, saltRounds int, frontendURL string) *resetUsecase {
	return &resetUsecase{
		users:       users,
		signer:      signer,
		mailer:      mailer,
		secret:      secret,
		ttl:         ttl,
		saltRounds:  saltRounds,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// tokenSecret は指定されたパスワードハッシュに束縛された署名シークレットを導出します。
func (u *resetUsecase) tokenSecret(passwordHash string) string {
	return u.secret + passwordHash
}

// Send はリセットトークンを発行し、リセットリンクをメールで送信します。
// アカウントが存在しない場合はErrUserNotFoundを返します。列挙攻撃対策として、
// ハンドラー層はこのエラーを外部へ公開せず204を返します。
func (u *resetUsecase) Send(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 現在のパスワードハッシュに束縛して署名する
	token, err := u.signer.Issue(user.Email, u.tokenSecret(user.Password), u.ttl)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/reset/%s", u.frontendURL, token)
	if err := u.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// Reset はトークンを検証し、対象アカウントのパスワードを更新します。
//
// 処理順序が自己無効化の保証そのものです:
//  1. 署名を検証せずにトークンからメールアドレスを抽出する（安価な非認証デコード）
//  2. アカウントを取得し、検証時点のパスワードハッシュを読む
//  3. そのハッシュから導出したシークレットで署名を検証する
//
// 手順2のハッシュはキャッシュしてはなりません。過去のパスワード変更で
// 発行済みトークンが失効するのは、常に最新のハッシュで検証するからです。
func (u *resetUsecase) Reset(ctx context.Context, token, newPassword string) error {
	email, err := u.signer.DecodeEmail(token)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if _, err := u.signer.Verify(token, u.tokenSecret(user.Password)); err != nil {
		return ErrInvalidToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.saltRounds)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return u.users.UpdatePassword(ctx, user.ID, string(hashed))
}
