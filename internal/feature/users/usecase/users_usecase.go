// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	authusecase "datadvisor_backend/internal/feature/auth/usecase"

	"golang.org/x/crypto/bcrypt"
)

// UserRepository はこのフィーチャーが必要とするユーザー永続化操作を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindAll は全ユーザーを取得します。
	FindAll(ctx context.Context) ([]*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update はユーザーの属性を保存します。
	Update(ctx context.Context, user *entity.User) error

	// Delete は指定されたユーザーを削除します。
	Delete(ctx context.Context, id string) error
}

// UpdateParams はユーザー更新の入力を表します。空文字のフィールドは変更しません。
type UpdateParams struct {
	LastName  string
	FirstName string
	Email     string
	Password  string
}

// usersUsecase はユーザーリソースのビジネスロジックを実装します。
type usersUsecase struct {
	users      UserRepository
	saltRounds int
}

// NewUsersUsecase はusersUsecaseの新しいインスタンスを生成します。
func NewUsersUsecase(users UserRepository, saltRounds int) *usersUsecase {
	return &usersUsecase{users: users, saltRounds: saltRounds}
}

// translateNotFound はリポジトリのセンチネルエラーをこのフィーチャーのものへ変換します。
func translateNotFound(err error) error {
	if errors.Is(err, authusecase.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// GetAll は全ユーザーを取得します。
func (u *usersUsecase) GetAll(ctx context.Context) ([]*entity.User, error) {
	return u.users.FindAll(ctx)
}

// GetByID は指定されたIDのユーザーを取得します。
func (u *usersUsecase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return user, nil
}

// Update は指定されたユーザーの属性を更新します。
// メールアドレスの変更は一意性を再検証し、衝突時はErrEmailAlreadyExistsを返します。
// パスワードの変更は再ハッシュされます。
func (u *usersUsecase) Update(ctx context.Context, id string, params UpdateParams) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	if params.Email != "" && params.Email != user.Email {
		if _, err := u.users.FindByEmail(ctx, params.Email); err == nil {
			return nil, ErrEmailAlreadyExists
		} else if !errors.Is(err, authusecase.ErrUserNotFound) {
			return nil, err
		}
		user.Email = params.Email
	}
	if params.LastName != "" {
		user.LastName = params.LastName
	}
	if params.FirstName != "" {
		user.FirstName = params.FirstName
	}
	if params.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), u.saltRounds)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, authusecase.ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Delete は指定されたユーザーを削除します。
// 既存のセッションは明示的には破棄されず、TTLで失効します。
func (u *usersUsecase) Delete(ctx context.Context, id string) error {
	return translateNotFound(u.users.Delete(ctx, id))
}
