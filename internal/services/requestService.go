package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/BloodBridge/internal/metrics"
	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/arzan03/BloodBridge/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequestService owns the donation request collection.
type RequestService struct {
	requests *mongo.Collection
}

func NewRequestService(requests *mongo.Collection) *RequestService {
	return &RequestService{requests: requests}
}

// Create stores a new request. donation_status always starts as pending.
func (s *RequestService) Create(ctx context.Context, fields bson.M) (_ models.InsertResult, err error) {
	defer metrics.ObserveDB("request_insert", time.Now(), &err)

	res, err := s.requests.InsertOne(ctx, models.NewRequest(fields))
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("insert request: %w", err)
	}
	return models.NewInsertResult(res), nil
}

// FindByID returns nil without error when the request does not exist.
func (s *RequestService) FindByID(ctx context.Context, id primitive.ObjectID) (_ models.Request, err error) {
	defer metrics.ObserveDB("request_find", time.Now(), &err)

	var req models.Request
	err = s.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find request %s: %w", id.Hex(), err)
	}
	return req, nil
}

// UpdateByID merges fields into one request.
func (s *RequestService) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (_ models.UpdateResult, err error) {
	defer metrics.ObserveDB("request_update", time.Now(), &err)

	res, err := s.requests.UpdateOne(ctx, bson.M{"_id": id}, MergeFields(fields))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update request %s: %w", id.Hex(), err)
	}
	return models.NewUpdateResult(res), nil
}

// SetDonationStatus changes only donation_status.
func (s *RequestService) SetDonationStatus(ctx context.Context, id primitive.ObjectID, status string) (models.UpdateResult, error) {
	return s.UpdateByID(ctx, id, bson.M{models.RequestDonationStatus: status})
}

// SetStatusByEmail sets the status field of the first request filed by email.
func (s *RequestService) SetStatusByEmail(ctx context.Context, email, status string) (_ models.UpdateResult, err error) {
	defer metrics.ObserveDB("request_update", time.Now(), &err)

	res, err := s.requests.UpdateOne(ctx,
		bson.M{models.RequestEmail: email},
		bson.M{"$set": bson.M{models.RequestStatus: status}},
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update request status for %s: %w", email, err)
	}
	return models.NewUpdateResult(res), nil
}

func (s *RequestService) SetAttachment(ctx context.Context, id primitive.ObjectID, att models.Attachment) (models.UpdateResult, error) {
	return s.UpdateByID(ctx, id, bson.M{models.RequestAttachment: att})
}

func (s *RequestService) DeleteByID(ctx context.Context, id primitive.ObjectID) (_ models.DeleteResult, err error) {
	defer metrics.ObserveDB("request_delete", time.Now(), &err)

	res, err := s.requests.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete request %s: %w", id.Hex(), err)
	}
	return models.NewDeleteResult(res), nil
}

// Search lists pending requests matching the selected location and blood group.
func (s *RequestService) Search(ctx context.Context, params SearchParams) (_ []models.Request, err error) {
	defer metrics.ObserveDB("request_search", time.Now(), &err)

	cursor, err := s.requests.Find(ctx, SearchFilter(params))
	if err != nil {
		return nil, fmt.Errorf("search requests: %w", err)
	}
	defer cursor.Close(ctx)

	found := []models.Request{}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}
	return found, nil
}

// Page returns one page of the requests matching filter and the total
// number of matches. The page and the count are fetched concurrently.
func (s *RequestService) Page(ctx context.Context, filter bson.M, page Page) (models.PageResult, error) {
	result := models.PageResult{Requests: []models.Request{}}

	err := utils.RunParallelTasks(ctx,
		func(ctx context.Context) (err error) {
			defer metrics.ObserveDB("request_page", time.Now(), &err)

			opts := options.Find().SetSkip(page.Skip()).SetLimit(page.Size)
			cursor, err := s.requests.Find(ctx, filter, opts)
			if err != nil {
				return fmt.Errorf("find requests: %w", err)
			}
			defer cursor.Close(ctx)
			if err := cursor.All(ctx, &result.Requests); err != nil {
				return fmt.Errorf("decode requests: %w", err)
			}
			return nil
		},
		func(ctx context.Context) (err error) {
			defer metrics.ObserveDB("request_count", time.Now(), &err)

			total, err := s.requests.CountDocuments(ctx, filter)
			if err != nil {
				return fmt.Errorf("count requests: %w", err)
			}
			result.Total = total
			return nil
		},
	)
	if err != nil {
		return models.PageResult{}, err
	}
	return result, nil
}
