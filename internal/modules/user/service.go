package user

import (
	"errors"
	"time"

	"github.com/imok-coding/otakulib/internal/models"
	sessionpkg "github.com/imok-coding/otakulib/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Login verifies credentials and issues a session-bound token. Failed
// attempts are slowed down to blunt brute forcing.
func (s *Service) Login(username, password, ip, ua string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", nil, ErrWrongPassword
	}

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	_ = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error

	return token, &u, nil
}

// Register creates an account. The first registered user becomes the site
// owner with the admin role; everyone after that is a reader.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	role := models.RoleReader
	if count == 0 {
		role = models.RoleAdmin
	}

	u := models.UserModel{
		Username: dto.Username,
		Name:     name,
		Mail:     dto.Mail,
		Password: string(hash),
		Role:     role,
	}
	return &u, s.db.Create(&u).Error
}

// GetByID fetches a user by ID.
func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetMaster returns the site owner (the admin account), nil if none yet.
func (s *Service) GetMaster() (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("role = ?", models.RoleAdmin).Order("created_at ASC").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// IdentityLabel resolves the activity notification label for a user id.
func (s *Service) IdentityLabel(id string) (name, mail string) {
	if id == "" {
		return "", ""
	}
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return "", ""
	}
	return u.Name, u.Mail
}
