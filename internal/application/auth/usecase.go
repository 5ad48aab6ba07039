package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/domain"
	"github.com/technova/ventas-api/internal/domain/entity"
	"github.com/technova/ventas-api/internal/domain/repository"
	"github.com/technova/ventas-api/pkg/jwt"
)

// UseCase registro y login de usuarios. Las contraseñas se guardan con bcrypt
// y el token emitido lleva el rol para que el middleware autorice sin DB.
type UseCase struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtIssuer     string
	jwtExpMinutes int
}

// NewUseCase construye el caso de uso.
func NewUseCase(userRepo repository.UserRepository, jwtSecret, jwtIssuer string, jwtExpMinutes int) *UseCase {
	return &UseCase{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtIssuer:     jwtIssuer,
		jwtExpMinutes: jwtExpMinutes,
	}
}

// Register da de alta un usuario. El rol por defecto es vendedor; solo se
// aceptan los roles conocidos.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	if role != entity.RoleAdmin && role != entity.RoleVendedor {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

// Login valida credenciales y emite un token JWT. Credenciales inválidas y
// usuario inexistente devuelven el mismo error para no filtrar existencia.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Role, uc.jwtIssuer, uc.jwtExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *userToResponse(user)}, nil
}

func userToResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
