package services

import (
	"fmt"
	"time"

	"campuslms/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=4"`
	Role             string `json:"role" binding:"required"`
	EnrollmentNumber string `json:"enrollment_number"` // students only
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Claims is the canonical token payload: user id plus role, nothing else.
// Every consumer of caller identity reads these two fields.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates the base user plus the role-specific profile row in one
// transaction, then issues a token.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, req.Role)
	}
	if req.Role == models.RoleStudent && req.EnrollmentNumber == "" {
		return nil, fmt.Errorf("%w: enrollment number is required for students", ErrValidation)
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: user already exists", ErrInvalidState)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      req.Role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch req.Role {
		case models.RoleStudent:
			return tx.Create(&models.Student{
				UserID:           user.ID,
				FirstName:        req.FirstName,
				LastName:         req.LastName,
				EnrollmentNumber: req.EnrollmentNumber,
			}).Error
		case models.RoleTeacher:
			return tx.Create(&models.Teacher{
				UserID:    user.ID,
				FirstName: req.FirstName,
				LastName:  req.LastName,
			}).Error
		case models.RoleAdmin:
			return tx.Create(&models.Admin{
				UserID:    user.ID,
				FirstName: req.FirstName,
				LastName:  req.LastName,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return &user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}
