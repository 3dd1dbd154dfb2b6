package models

import "time"

// Response values for CelebrationRequest.Response.
const (
	ResponsePending  = "pending"
	ResponseAccepted = "accepted"
	ResponseRejected = "rejected"
)

// DefaultAffectionLevel is applied when a request is created without one.
const DefaultAffectionLevel = "te_amo"

// CelebrationRequest is a personalized card sent to a partner. The slug is the
// public handle: anyone holding it can view the card and record a response.
// ImagePath, when set, points at an asset the service owns and must delete
// when the image is replaced or the request removed.
type CelebrationRequest struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string         `json:"userId" gorm:"type:varchar(36);index"`
	User           User           `json:"user" gorm:"foreignKey:UserID"`
	PartnerName    string         `json:"partnerName" gorm:"type:varchar(255)" validate:"required"`
	Message        *string        `json:"message" gorm:"type:text"`
	Slug           string         `json:"slug" gorm:"uniqueIndex;type:varchar(36)"`
	Response       string         `json:"response" gorm:"type:varchar(20);default:pending"`
	AffectionLevel string         `json:"affectionLevel" gorm:"type:varchar(50);default:te_amo"`
	ImagePath      *string        `json:"imagePath" gorm:"type:varchar(512)"`
	OccasionID     *string        `json:"occasionId" gorm:"type:varchar(36)"`
	Occasion       *Occasion      `json:"occasion" gorm:"foreignKey:OccasionID"`
	ExtraData      map[string]any `json:"extraData" gorm:"serializer:json"`
	CreatedAt      time.Time      `json:"createdAt"`
}
