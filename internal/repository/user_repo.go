package repository

import (
	"go-stockbit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]model.User, error)
	// Update writes the profile and subscription columns of user. The
	// password hash and token version are only changed by their own
	// methods.
	Update(user *model.User) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	CountAdmins() (int64, error)
	// UpdateKeepingAdmin saves user and fails with ErrLastAdmin when the
	// change would leave no admin account.
	UpdateKeepingAdmin(user *model.User) error
	// Delete removes the user and everything they own. Deleting the only
	// admin fails with ErrLastAdmin.
	Delete(id uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// editableUserColumns are the columns Update and UpdateKeepingAdmin write.
var editableUserColumns = []string{
	"username", "email", "business_name", "phone",
	"is_premium", "premium_since", "subscription_active", "is_admin",
	"updated_at",
}

func updateEditable(tx *gorm.DB, user *model.User) error {
	res := tx.Model(user).Select(editableUserColumns).Updates(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Update(user *model.User) error {
	return updateEditable(r.db, user)
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	res := r.db.Model(&model.User{}).Where("id = ?", userID).Update("password_hash", hashedPassword)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

func (r *userRepo) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("is_admin = ?", true).Count(&count).Error
	return count, err
}

// lockAdmins locks every admin row and returns their ids, so concurrent
// demotions or deletions serialize on the same set.
func lockAdmins(tx *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&model.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_admin = ?", true).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *userRepo) UpdateKeepingAdmin(user *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx)
		if err != nil {
			return err
		}

		var current model.User
		if err := tx.First(&current, "id = ?", user.ID).Error; err != nil {
			return notFound(err)
		}
		if current.IsAdmin && !user.IsAdmin && len(admins) <= 1 {
			return ErrLastAdmin
		}

		return updateEditable(tx, user)
	})
}

func (r *userRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx)
		if err != nil {
			return err
		}

		var target model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&target, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if target.IsAdmin && len(admins) <= 1 {
			return ErrLastAdmin
		}

		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}
