package user

import (
	"StockCount-Backend/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) error
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		CheckEmailExists(ctx context.Context, email string) (bool, error)
		GetAllowedLocationIDs(ctx context.Context, userID string) ([]string, error)
		CreateLocation(ctx context.Context, location *entities.Location) error
		AssignLocation(ctx context.Context, userID string, locationID string) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Preload("Locations").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *userRepository) GetAllowedLocationIDs(ctx context.Context, userID string) ([]string, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	locationIDs := make([]string, 0, len(user.Locations))
	for _, location := range user.Locations {
		locationIDs = append(locationIDs, location.ID.String())
	}
	return locationIDs, nil
}

func (r *userRepository) CreateLocation(ctx context.Context, location *entities.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *userRepository) AssignLocation(ctx context.Context, userID string, locationID string) error {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	var location entities.Location
	if err := r.db.WithContext(ctx).Where("id = ?", locationID).First(&location).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(user).Association("Locations").Append(&location)
}
