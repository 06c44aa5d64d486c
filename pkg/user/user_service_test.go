package user

import (
	"context"
	"lixozero/domain"
	"lixozero/entities"
	"lixozero/pkg/jwt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	users []*entities.User
}

func (r *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) GetAllUsers(_ context.Context) ([]*entities.User, error) {
	return r.users, nil
}

func TestRegister(t *testing.T) {
	repo := &fakeUserRepository{}
	service := NewUserService(repo, jwt.NewJWTService())

	res, err := service.Register(context.Background(), domain.RegisterUserRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "segredo123",
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria", res.Name)
	assert.Equal(t, domain.PlanFree, res.Plan)
	assert.Equal(t, domain.DefaultAlertDaysBefore, res.AlertDaysBefore)

	require.Len(t, repo.users, 1)
	stored := repo.users[0]
	assert.NotEqual(t, "segredo123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("segredo123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepository{}
	service := NewUserService(repo, jwt.NewJWTService())

	_, err := service.Register(context.Background(), domain.RegisterUserRequest{
		Name: "Maria", Email: "maria@example.com", Password: "segredo123",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), domain.RegisterUserRequest{
		Name: "Outra Maria", Email: "maria@example.com", Password: "segredo456",
	})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Len(t, repo.users, 1)
}

func TestLogin(t *testing.T) {
	repo := &fakeUserRepository{}
	service := NewUserService(repo, jwt.NewJWTService())

	_, err := service.Register(context.Background(), domain.RegisterUserRequest{
		Name: "Maria", Email: "maria@example.com", Password: "segredo123",
	})
	require.NoError(t, err)

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email: "maria@example.com", Password: "segredo123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "maria@example.com", Password: "errada",
	})
	require.ErrorIs(t, err, domain.ErrWrongCredentials)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "ninguem@example.com", Password: "segredo123",
	})
	require.ErrorIs(t, err, domain.ErrWrongCredentials)
}

func TestUpdateUser(t *testing.T) {
	repo := &fakeUserRepository{}
	service := NewUserService(repo, jwt.NewJWTService())

	res, err := service.Register(context.Background(), domain.RegisterUserRequest{
		Name: "Maria", Email: "maria@example.com", Password: "segredo123",
	})
	require.NoError(t, err)

	err = service.UpdateUser(context.Background(), domain.UpdateUserRequest{
		Name:            "Maria Silva",
		AlertDaysBefore: 7,
	}, res.ID)
	require.NoError(t, err)

	updated := repo.users[0]
	assert.Equal(t, "Maria Silva", updated.Name)
	assert.Equal(t, 7, updated.AlertDaysBefore)

	// zero values leave existing fields alone
	err = service.UpdateUser(context.Background(), domain.UpdateUserRequest{}, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", repo.users[0].Name)
	assert.Equal(t, 7, repo.users[0].AlertDaysBefore)
}

func TestResetPassword(t *testing.T) {
	repo := &fakeUserRepository{}
	jwtService := jwt.NewJWTService()
	service := NewUserService(repo, jwtService)

	res, err := service.Register(context.Background(), domain.RegisterUserRequest{
		Name: "Maria", Email: "maria@example.com", Password: "segredo123",
	})
	require.NoError(t, err)

	token, err := jwtService.GenerateTokenForgetPassword(map[string]any{"user_id": res.ID}, 15*time.Minute)
	require.NoError(t, err)

	err = service.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:    token,
		Password: "novasenha123",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "maria@example.com", Password: "novasenha123",
	})
	require.NoError(t, err)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	service := NewUserService(&fakeUserRepository{}, jwt.NewJWTService())

	err := service.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:    "not-a-token",
		Password: "novasenha123",
	})

	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}
