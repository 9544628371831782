package handlers

import (
	"context"
	"errors"
	"io"
	"reflect"
	"regexp"
	"sync"
	"time"

	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/arzan03/BloodBridge/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store down")

type fakeUsers struct {
	mu    sync.Mutex
	docs  []models.User
	fail  bool
	clock time.Time
}

func (f *fakeUsers) put(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, u)
}

func (f *fakeUsers) Create(_ context.Context, profile bson.M) (models.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.InsertResult{}, errStoreDown
	}
	user := models.NewUser(profile, f.clock)
	id := primitive.NewObjectID()
	user["_id"] = id
	f.docs = append(f.docs, user)
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	return append([]models.User{}, f.docs...), nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	for _, u := range f.docs {
		if u[models.UserEmail] == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) UpdateByEmail(_ context.Context, email string, fields bson.M) (models.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.UpdateResult{}, errStoreDown
	}
	for _, u := range f.docs {
		if u[models.UserEmail] == email {
			return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: merge(u, fields)}, nil
		}
	}
	return models.UpdateResult{Acknowledged: true}, nil
}

type fakeRequests struct {
	mu   sync.Mutex
	docs []models.Request
	fail bool
}

func (f *fakeRequests) Create(_ context.Context, fields bson.M) (models.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.InsertResult{}, errStoreDown
	}
	req := models.NewRequest(fields)
	id := primitive.NewObjectID()
	req["_id"] = id
	f.docs = append(f.docs, req)
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (f *fakeRequests) find(id primitive.ObjectID) models.Request {
	for _, r := range f.docs {
		if r["_id"] == id {
			return r
		}
	}
	return nil
}

func (f *fakeRequests) FindByID(_ context.Context, id primitive.ObjectID) (models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	return f.find(id), nil
}

func (f *fakeRequests) UpdateByID(_ context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.UpdateResult{}, errStoreDown
	}
	req := f.find(id)
	if req == nil {
		return models.UpdateResult{Acknowledged: true}, nil
	}
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: merge(req, fields)}, nil
}

func (f *fakeRequests) SetDonationStatus(ctx context.Context, id primitive.ObjectID, status string) (models.UpdateResult, error) {
	return f.UpdateByID(ctx, id, bson.M{models.RequestDonationStatus: status})
}

func (f *fakeRequests) SetStatusByEmail(_ context.Context, email, status string) (models.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.UpdateResult{}, errStoreDown
	}
	for _, r := range f.docs {
		if r[models.RequestEmail] == email {
			return models.UpdateResult{
				Acknowledged:  true,
				MatchedCount:  1,
				ModifiedCount: merge(r, bson.M{models.RequestStatus: status}),
			}, nil
		}
	}
	return models.UpdateResult{Acknowledged: true}, nil
}

func (f *fakeRequests) SetAttachment(ctx context.Context, id primitive.ObjectID, att models.Attachment) (models.UpdateResult, error) {
	return f.UpdateByID(ctx, id, bson.M{models.RequestAttachment: att})
}

func (f *fakeRequests) DeleteByID(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.DeleteResult{}, errStoreDown
	}
	for i, r := range f.docs {
		if r["_id"] == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return models.DeleteResult{Acknowledged: true}, nil
}

func (f *fakeRequests) Search(_ context.Context, params services.SearchParams) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	return f.filter(services.SearchFilter(params)), nil
}

func (f *fakeRequests) Page(_ context.Context, filter bson.M, page services.Page) (models.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.PageResult{}, errStoreDown
	}
	all := f.filter(filter)
	result := models.PageResult{Requests: []models.Request{}, Total: int64(len(all))}
	start := page.Skip()
	end := int64(len(all))
	if page.Size > 0 && start+page.Size < end {
		end = start + page.Size
	}
	if start < end {
		result.Requests = all[start:end]
	}
	return result, nil
}

// filter evaluates equality and case-insensitive regex conditions the way
// the store would for the filters the services build.
func (f *fakeRequests) filter(filter bson.M) []models.Request {
	out := []models.Request{}
	for _, r := range f.docs {
		if matches(r, filter) {
			out = append(out, r)
		}
	}
	return out
}

func matches(doc bson.M, filter bson.M) bool {
	for field, cond := range filter {
		switch c := cond.(type) {
		case primitive.Regex:
			s, _ := doc[field].(string)
			if !regexp.MustCompile("(?" + c.Options + ")" + c.Pattern).MatchString(s) {
				return false
			}
		default:
			if !reflect.DeepEqual(doc[field], cond) {
				return false
			}
		}
	}
	return true
}

func merge(doc bson.M, fields bson.M) int64 {
	set := services.MergeFields(fields)["$set"].(bson.M)
	var changed int64
	for k, v := range set {
		if old, ok := doc[k]; !ok || !reflect.DeepEqual(old, v) {
			changed = 1
		}
		doc[k] = v
	}
	return changed
}

type fakeFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeFiles) Put(_ context.Context, name string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = data
	return nil
}

func (f *fakeFiles) PresignedGet(_ context.Context, name string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[name]; !ok {
		return "", errors.New("no such object")
	}
	return "https://files.local/" + name + "?ttl=" + ttl.String(), nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
