package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/arzan03/BloodBridge/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidID = errors.New("invalid id")

// Placeholder values the client sends when a search select box is untouched.
const (
	AnyDistrict   = "Select Your District"
	AnyUpazilla   = "Select Your Upazilla"
	AnyBloodGroup = "Select Your Blood Group"
)

// ParseID validates a document id before it reaches the store.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

type SearchParams struct {
	District   string
	Upazilla   string
	BloodGroup string
}

// SearchFilter always restricts to pending requests and adds a
// case-insensitive exact match for each selected field.
func SearchFilter(p SearchParams) bson.M {
	filter := bson.M{models.RequestDonationStatus: models.DonationPending}
	addExactMatch(filter, models.RequestDistrict, p.District, AnyDistrict)
	addExactMatch(filter, models.RequestUpazilla, p.Upazilla, AnyUpazilla)
	addExactMatch(filter, models.RequestBlood, p.BloodGroup, AnyBloodGroup)
	return filter
}

func addExactMatch(filter bson.M, field, value, placeholder string) {
	if value == "" || value == placeholder {
		return
	}
	// QuoteMeta escapes "+" in blood groups like "O+".
	filter[field] = primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// Page selects Size documents starting at Size*Number.
type Page struct {
	Size   int64
	Number int64
}

const (
	DefaultPageSize   = 10
	DefaultPageNumber = 0
)

// NewPage applies the defaults to negative values. A size of zero means no
// limit, as in the store.
func NewPage(size, number int) Page {
	if size < 0 {
		size = DefaultPageSize
	}
	if number < 0 {
		number = DefaultPageNumber
	}
	return Page{Size: int64(size), Number: int64(number)}
}

func (p Page) Skip() int64 {
	return p.Size * p.Number
}

// MergeFields builds a field-level merge update. The _id is immutable in the
// store and is never part of the update.
func MergeFields(fields bson.M) bson.M {
	set := make(bson.M, len(fields))
	for k, v := range fields {
		if k == "_id" || strings.HasPrefix(k, "$") {
			continue
		}
		set[k] = v
	}
	return bson.M{"$set": set}
}
