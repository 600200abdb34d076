// Package usecase はメール確認フィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	authusecase "datadvisor_backend/internal/feature/auth/usecase"
)

// UserRepository はこのフィーチャーが必要とするユーザー永続化操作を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateEmailVerified は指定されたユーザーのメール確認状態を更新します。
	UpdateEmailVerified(ctx context.Context, id string, verified bool) error
}

// TokenSigner は署名付き期限付きトークンの発行と検証を抽象化します。
type TokenSigner interface {
	// Issue は指定されたメールアドレスをクレームに持つ署名済みトークンを発行します。
	Issue(email, secret string, ttl time.Duration) (string, error)

	// Verify はトークンの署名と有効期限を検証し、メールアドレスクレームを返します。
	Verify(token, secret string) (string, error)
}

// Mailer は確認リンクのメール送信を抽象化します。
type Mailer interface {
	// SendConfirmation は確認リンクを指定されたアドレスへ送信します。
	SendConfirmation(ctx context.Context, to, link string) error
}

// confirmationUsecase はメール確認のビジネスロジックを実装します。
// 確認トークンはアプリケーション全体で固定のシークレットで署名されます。
type confirmationUsecase struct {
	users       UserRepository
	signer      TokenSigner
	mailer      Mailer
	secret      string
	ttl         time.Duration
	frontendURL string
}

// NewConfirmationUsecase はconfirmationUsecaseの新しいインスタンスを生成します。
func NewConfirmationUsecase(users UserRepository, signer TokenSigner, mailer Mailer,
	secret string, ttl time.Duration, frontendURL string) *confirmationUsecase {
	return &confirmationUsecase{
		users:       users,
		signer:      signer,
		mailer:      mailer,
		secret:      secret,
		ttl:         ttl,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// authUsecase.ConfirmationSenderを実装していることをコンパイル時に検証します。
var _ authusecase.ConfirmationSender = (*confirmationUsecase)(nil)

// Send は確認トークンを発行し、確認リンクをメールで送信します。
// 既に確認済みのアカウントに対してはErrEmailAlreadyConfirmedを返します。
func (u *confirmationUsecase) Send(ctx context.Context, user *entity.User) error {
	if user.EmailVerified {
		return ErrEmailAlreadyConfirmed
	}

	token, err := u.signer.Issue(user.Email, u.secret, u.ttl)
	if err != nil {
		return fmt.Errorf("failed to issue confirmation token: %w", err)
	}

	link := fmt.Sprintf("%s/email-confirmation/verify?token=%s", u.frontendURL, token)
	if err := u.mailer.SendConfirmation(ctx, user.Email, link); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// Confirm はトークンを検証し、対象アカウントを確認済み状態へ遷移させます。
// 署名不正と期限切れはErrInvalidTokenにまとめられ、どちらが原因かは公開しません。
func (u *confirmationUsecase) Confirm(ctx context.Context, token string) error {
	email, err := u.signer.Verify(token, u.secret)
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

	if user.EmailVerified {
		return ErrEmailAlreadyConfirmed
	}

	return u.users.UpdateEmailVerified(ctx, user.ID, true)
}
