package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Donation states. Callers may store other values through the status routes.
const (
	DonationPending = "pending"
)

// Field names of the donation request document.
const (
	RequestDonationStatus = "donation_status"
	RequestEmail          = "req_email"
	RequestDistrict       = "rec_district"
	RequestUpazilla       = "rec_upazilla"
	RequestBlood          = "rec_blood"
	RequestStatus         = "status"
	RequestAttachment     = "attachment"
)

// Request documents are schemaless; only the fields above are interpreted.
type Request = bson.M

// NewRequest copies the caller's fields and forces the initial donation status.
func NewRequest(fields bson.M) Request {
	req := make(Request, len(fields)+1)
	for k, v := range fields {
		req[k] = v
	}
	delete(req, "_id")
	req[RequestDonationStatus] = DonationPending
	return req
}

// Attachment describes an uploaded file stored next to a request.
type Attachment struct {
	Object      string    `bson:"object" json:"object"`
	Filename    string    `bson:"filename" json:"filename"`
	ContentType string    `bson:"content_type" json:"content_type"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploaded_at"`
}
