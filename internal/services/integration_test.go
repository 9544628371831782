//go:build integration

package services

import (
	"context"
	"testing"
	"time"

	"github.com/arzan03/BloodBridge/internal/db"
	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// setupStore starts a MongoDB container and returns a store bound to a
// fresh database.
func setupStore(t *testing.T) *db.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err, "start mongodb container")
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := db.ConnectMongoDB(ctx, uri, "bloodbridge_test", 30*time.Second, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Disconnect(context.Background())
	})
	return store
}

func TestIntegrationRequestLifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc := NewRequestService(store.Requests)

	seed := []bson.M{
		{"req_email": "a@x.io", "rec_district": "Dhaka", "rec_upazilla": "Savar", "rec_blood": "O+"},
		{"req_email": "a@x.io", "rec_district": "dhaka", "rec_upazilla": "Dhamrai", "rec_blood": "O"},
		{"req_email": "b@x.io", "rec_district": "Dhaka North", "rec_upazilla": "Gulshan", "rec_blood": "AB-"},
		{"req_email": "a@x.io", "rec_district": "Sylhet", "rec_upazilla": "Beanibazar", "rec_blood": "O+", "donation_status": "done"},
		{"req_email": "a@x.io", "rec_district": "Khulna", "rec_upazilla": "Dumuria", "rec_blood": "A+"},
	}
	var ids []primitive.ObjectID
	for _, s := range seed {
		res, err := svc.Create(ctx, s)
		require.NoError(t, err)
		ids = append(ids, res.InsertedID.(primitive.ObjectID))
	}

	t.Run("create forces pending", func(t *testing.T) {
		got, err := svc.FindByID(ctx, ids[3])
		require.NoError(t, err)
		assert.Equal(t, "pending", got["donation_status"])
		assert.Equal(t, "Sylhet", got["rec_district"])
	})

	t.Run("search is case insensitive and exact", func(t *testing.T) {
		found, err := svc.Search(ctx, SearchParams{District: "DHAKA"})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = svc.Search(ctx, SearchParams{BloodGroup: "O+"})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = svc.Search(ctx, SearchParams{BloodGroup: "o"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, ids[1], found[0]["_id"])

		found, err = svc.Search(ctx, SearchParams{District: AnyDistrict, Upazilla: AnyUpazilla, BloodGroup: AnyBloodGroup})
		require.NoError(t, err)
		assert.Len(t, found, 5)
	})

	t.Run("donation status excludes from search", func(t *testing.T) {
		res, err := svc.SetDonationStatus(ctx, ids[4], "inprogress")
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)

		res, err = svc.SetDonationStatus(ctx, ids[4], "inprogress")
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(0), res.ModifiedCount)

		found, err := svc.Search(ctx, SearchParams{District: "khulna"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("page splits the filtered set", func(t *testing.T) {
		filter := bson.M{models.RequestEmail: "a@x.io"}
		seen := map[primitive.ObjectID]bool{}
		for number := 0; number < 3; number++ {
			page, err := svc.Page(ctx, filter, NewPage(2, number))
			require.NoError(t, err)
			assert.Equal(t, int64(4), page.Total)
			for _, r := range page.Requests {
				seen[r["_id"].(primitive.ObjectID)] = true
			}
		}
		assert.Len(t, seen, 4)

		page, err := svc.Page(ctx, filter, NewPage(2, 5))
		require.NoError(t, err)
		assert.NotNil(t, page.Requests)
		assert.Empty(t, page.Requests)
	})

	t.Run("merge update keeps other fields", func(t *testing.T) {
		res, err := svc.UpdateByID(ctx, ids[0], bson.M{"_id": primitive.NewObjectID(), "hospital": "DMCH"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)

		got, err := svc.FindByID(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "DMCH", got["hospital"])
		assert.Equal(t, "Savar", got["rec_upazilla"])
	})

	t.Run("delete", func(t *testing.T) {
		res, err := svc.DeleteByID(ctx, ids[2])
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.DeletedCount)

		got, err := svc.FindByID(ctx, ids[2])
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIntegrationUsers(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc := NewUserService(store.Users)

	_, err := svc.Create(ctx, bson.M{"email": "donor@x.io", "role": "admin", "name": "Rafi"})
	require.NoError(t, err)

	user, err := svc.FindByEmail(ctx, "donor@x.io")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonor, user["role"])
	assert.Equal(t, models.UserPending, user["status"])

	_, err = svc.SetRole(ctx, "donor@x.io", models.RoleAdmin)
	require.NoError(t, err)
	user, err = svc.FindByEmail(ctx, "donor@x.io")
	require.NoError(t, err)
	assert.True(t, models.IsAdmin(user))

	missing, err := svc.FindByEmail(ctx, "ghost@x.io")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
