// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"datadvisor_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ConfirmationSender はメール確認リンクの送信を抽象化します。
// authフィーチャーとemailconfirmフィーチャーの循環依存を避けるため、
// 具象サービスではなくこの狭いインターフェースに依存します。
type ConfirmationSender interface {
	// Send は指定されたユーザーへ確認メールを送信します。
	Send(ctx context.Context, user *entity.User) error
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users         UserRepository
	sessions      SessionRepository
	confirmations ConfirmationSender
	saltRounds    int
	sessionTTL    time.Duration
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository,
	confirmations ConfirmationSender, saltRounds int, sessionTTL time.Duration) *authUsecase {
	return &authUsecase{
		users:         users,
		sessions:      sessions,
		confirmations: confirmations,
		saltRounds:    saltRounds,
		sessionTTL:    sessionTTL,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
// 作成されたアカウントは常に未確認（EmailVerified=false）で開始します。
// 確認メールの送信はベストエフォートであり、失敗してもアカウント作成は取り消されません。
func (u *authUsecase) Signup(ctx context.Context, lastName, firstName, email, password string) (*entity.User, error) {
	// パスワード強度を検証
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.saltRounds)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		LastName:      lastName,
		FirstName:     firstName,
		Email:         email,
		Password:      string(hashed),
		Role:          entity.RoleUser,
		EmailVerified: false,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// 確認メール送信の失敗はWarnログのみ。サインアップ自体は成功させる
	if err := u.confirmations.Send(ctx, user); err != nil {
		slog.Warn("failed to send confirmation email on signup", "email", user.Email, "error", err)
	}

	return user, nil
}

// Signin はユーザーを認証し、成功時にサーバーサイドセッションを確立します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// 未知のメールアドレスとパスワード不一致は内部的には区別されたエラーを返しますが、
// HTTP境界では同一の401にまとめられます。
func (u *authUsecase) Signin(ctx context.Context, email, password string) (*entity.User, *entity.Session, error) {
	// メールアドレスでユーザーを検索
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if compareErr != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := entity.NewSession(user.ID, u.sessionTTL)
	if err != nil {
		return nil, nil, err
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return user, session, nil
}

// Signout は指定されたセッションを破棄します。
// セッションが存在しない場合、ErrSessionNotFoundを返します。
func (u *authUsecase) Signout(ctx context.Context, sessionID string) error {
	return u.sessions.Delete(ctx, sessionID)
}
