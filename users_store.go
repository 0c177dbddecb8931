package main

import (
	"errors"
	"strings"

	"storeapi/models"

	"gorm.io/gorm"
)

// UserStore owns User rows. Email uniqueness is enforced here: optimistic
// pre-check in the register flow plus the unique index as the authority when
// two registrations race.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// errEmailTaken is returned by Create when the email unique index rejects the row.
var errEmailTaken = errors.New("email already taken")

func (s *UserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return errEmailTaken
		}
		return err
	}
	return nil
}

func (s *UserStore) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists is the optimistic pre-check used by the register flow.
func (s *UserStore) EmailExists(email string) (bool, error) {
	var cnt int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
