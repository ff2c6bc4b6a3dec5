package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/constants"
	authModel "sekolahku_backend/internals/features/users/auth/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ================== REGISTER & LOGIN ==================

func (s *AuthService) Register(name, email, password, role string) (*userModel.UserModel, error) {
	if !isKnownRole(role) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Role tidak dikenal")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal hash password")
	}

	user := userModel.UserModel{
		UserName:     name,
		UserEmail:    email,
		UserPassword: string(hashed),
		UserRole:     role,
		UserIsActive: true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
	}
	return &user, nil
}

func (s *AuthService) Login(email, password string) (*userModel.UserModel, *TokenPair, error) {
	var user userModel.UserModel
	if err := s.DB.Where("user_email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	if !user.UserIsActive {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(password)); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	pair, err := s.issueTokenPair(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// ================== REFRESH & LOGOUT ==================

// RefreshToken memutar refresh token: token lama di-revoke, pasangan baru terbit.
func (s *AuthService) RefreshToken(rawRefresh string) (*TokenPair, error) {
	token, err := jwt.Parse(rawRefresh, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var stored authModel.RefreshTokenModel
	if err := s.DB.
		Where("refresh_token_hash = ?", hashToken(rawRefresh)).
		First(&stored).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak dikenal")
	}
	if !stored.IsUsable(time.Now()) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token sudah tidak berlaku")
	}

	var user userModel.UserModel
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.UserIsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	// rotate: revoke token lama
	now := time.Now()
	if err := s.DB.Model(&stored).
		Update("refresh_token_revoked_at", now).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal rotasi refresh token")
	}

	return s.issueTokenPair(&user)
}

func (s *AuthService) Logout(rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	now := time.Now()
	return s.DB.Model(&authModel.RefreshTokenModel{}).
		Where("refresh_token_hash = ? AND refresh_token_revoked_at IS NULL", hashToken(rawRefresh)).
		Update("refresh_token_revoked_at", now).Error
}

// ================== INTERNAL ==================

func (s *AuthService) issueTokenPair(user *userModel.UserModel) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":     user.UserID.String(),
		"user_id": user.UserID.String(),
		"role":    user.UserRole,
		"iat":     now.Unix(),
		"exp":     now.Add(accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat access token")
	}

	// jti menjamin tiap refresh token unik walau terbit di detik yang sama
	refreshClaims := jwt.MapClaims{
		"sub": user.UserID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTL).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	record := authModel.RefreshTokenModel{
		RefreshTokenUserID:    user.UserID,
		RefreshTokenHash:      hashToken(refresh),
		RefreshTokenExpiresAt: now.Add(refreshTTL),
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan refresh token")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func isKnownRole(role string) bool {
	for _, known := range constants.AllRoles {
		if role == known {
			return true
		}
	}
	return false
}
