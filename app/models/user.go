package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PROVIDER_LOCAL  = "local"
	PROVIDER_KAKAO  = "kakao"
	PROVIDER_NAVER  = "naver"
	PROVIDER_GOOGLE = "google"
)

// ErrPasswordTooShort is returned by CreateUser for passwords under 4 characters.
var ErrPasswordTooShort = errors.New("password must be at least 4 characters")

type User struct {
	ID        string    `gorm:"primaryKey;column:user_id;type:varchar(36)" json:"user_id"`
	Username  string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"username" validate:"required,min=3,max=255"`
	Password  *string   `gorm:"type:varchar(255)" json:"-"`
	Nickname  string    `gorm:"type:varchar(100)" json:"nickname" validate:"required,min=1,max=100"`
	SocialID  string    `gorm:"type:varchar(255);default:null" json:"-"`
	Provider  string    `gorm:"type:varchar(50);default:'local'" json:"provider"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// BeforeCreate assigns a random UUID when none was set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(username string, nickname string, password string) (*User, error) {
	if len(password) < 4 {
		return nil, ErrPasswordTooShort
	}
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username: username,
		Nickname: nickname,
		Password: &pw,
		Provider: PROVIDER_LOCAL,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

// NewSocialUser builds a password-less account for an OAuth identity.
// The username is "<provider>_<id>" so it cannot collide with another provider.
func NewSocialUser(provider, socialID, nickname string) *User {
	if nickname == "" {
		nickname = provider + " user"
	}
	return &User{
		Username: provider + "_" + socialID,
		Nickname: nickname,
		SocialID: socialID,
		Provider: provider,
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies the password; social accounts never match.
func (u *User) CheckPassword(password string) bool {
	if u.Password == nil {
		return false
	}
	return CheckPasswordHash(password, *u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = &hashedPassword
	return nil
}

// IsSocial reports whether the account was created through an OAuth provider.
func (u *User) IsSocial() bool {
	return u.Provider != "" && u.Provider != PROVIDER_LOCAL
}
