package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/BloodBridge/internal/metrics"
	"github.com/arzan03/BloodBridge/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserService owns the user collection.
type UserService struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewUserService(users *mongo.Collection) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Create stores a new donor profile. Role, status and createdAt are always
// chosen by the service.
func (s *UserService) Create(ctx context.Context, profile bson.M) (_ models.InsertResult, err error) {
	defer metrics.ObserveDB("user_insert", time.Now(), &err)

	res, err := s.users.InsertOne(ctx, models.NewUser(profile, s.now()))
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("insert user: %w", err)
	}
	return models.NewInsertResult(res), nil
}

func (s *UserService) List(ctx context.Context) (_ []models.User, err error) {
	defer metrics.ObserveDB("user_list", time.Now(), &err)

	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// FindByEmail returns nil without error when no user has the email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (_ models.User, err error) {
	defer metrics.ObserveDB("user_find", time.Now(), &err)

	var user models.User
	err = s.users.FindOne(ctx, bson.M{models.UserEmail: email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return user, nil
}

// UpdateByEmail merges fields into the user's document.
func (s *UserService) UpdateByEmail(ctx context.Context, email string, fields bson.M) (_ models.UpdateResult, err error) {
	defer metrics.ObserveDB("user_update", time.Now(), &err)

	res, err := s.users.UpdateOne(ctx, bson.M{models.UserEmail: email}, MergeFields(fields))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update user %s: %w", email, err)
	}
	return models.NewUpdateResult(res), nil
}

func (s *UserService) SetRole(ctx context.Context, email, role string) (models.UpdateResult, error) {
	return s.UpdateByEmail(ctx, email, bson.M{models.UserRole: role})
}

func (s *UserService) SetStatus(ctx context.Context, email, status string) (models.UpdateResult, error) {
	return s.UpdateByEmail(ctx, email, bson.M{models.UserStatus: status})
}
