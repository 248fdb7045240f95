package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is the single answer to every failed login, so the
// caller cannot tell a wrong password from an unknown email.
var ErrInvalidCredentials = response.NewUnauthorized("email or password incorrect")

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token    string
	ExpireAt time.Time
	User     *models.User
}

// SessionTTL is how long a session cookie and its token stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	minutes := s.jwtConfig.ExpireMinutes
	if minutes <= 0 {
		minutes = 120
	}
	return time.Duration(minutes) * time.Minute
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	ttl := s.SessionTTL()
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}

	return &LoginResult{Token: token, ExpireAt: now.Add(ttl), User: &user}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, findError(err, "user")
	}
	return &user, nil
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// CreateUser adds an account. Emails are stored lowercase and must be unique.
func (s *AuthService) CreateUser(req *CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("a user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// CreateAdminIfNotExists seeds the configured admin when no admin exists yet.
func (s *AuthService) CreateAdminIfNotExists(admin config.AdminConfig) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err := s.CreateUser(&CreateUserRequest{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return findError(err, "user")
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return response.NewBadRequest("incorrect old password")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", hashedPassword).Error
}

// ListUsers returns all accounts ordered by id.
func (s *AuthService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

type UpdateUserRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UpdateUser changes the role or active flag of another account. Admins
// cannot change their own account.
func (s *AuthService) UpdateUser(actorID, id uint, req *UpdateUserRequest) (*models.User, error) {
	if actorID == id {
		return nil, response.NewBadRequest("cannot modify your own account")
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, findError(err, "user")
	}

	updates := map[string]interface{}{}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleUser {
			return nil, response.NewBadRequest("role must be one of: admin user")
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetUserByID(id)
}
