package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Care level vocabularies. The frontend renders these as fixed indicator
// scales, so anything outside the lists is rejected at the API boundary.
var (
	LightLevels = []string{
		"low to bright indirect",
		"medium indirect",
		"medium to bright indirect",
		"bright indirect",
		"bright",
	}
	WaterLevels       = []string{"low", "low to medium", "medium", "medium to high", "high"}
	TemperatureLevels = []string{"average", "warm"}
	HumidityLevels    = []string{"average", "high"}
	ReviewStatuses    = []string{ReviewPending, ReviewApproved, ReviewRejected}
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Comment is one entry in a plant's append-only comment list. The ID is
// assigned server-side so identical comment texts stay distinguishable.
type Comment struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
	Comment  string `bson:"comment" json:"comment"`
}

type Plant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PrimaryName   string             `bson:"primaryName" json:"primaryName"`
	SecondaryName string             `bson:"secondaryName" json:"secondaryName"`
	Light         string             `bson:"light,omitempty" json:"light,omitempty"`
	Water         string             `bson:"water,omitempty" json:"water,omitempty"`
	Temperature   string             `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Humidity      string             `bson:"humidity,omitempty" json:"humidity,omitempty"`
	Toxic         *bool              `bson:"toxic,omitempty" json:"toxic,omitempty"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Review        string             `bson:"review,omitempty" json:"review,omitempty"`
	Comments      []Comment          `bson:"comments,omitempty" json:"comments,omitempty"`
	ContributorID string             `bson:"contributorId,omitempty" json:"contributorId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// User owns three independent lists of plant ids (hex strings). The lists
// have set semantics: adding an id twice leaves a single entry.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Email      string             `bson:"email" json:"email"`
	Username   string             `bson:"username" json:"username"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"`
	ImageURL   string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Collection []string           `bson:"collection" json:"collection"`
	Favorites  []string           `bson:"favorites" json:"favorites"`
	Wishlist   []string           `bson:"wishlist" json:"wishlist"`
	Joined     time.Time          `bson:"joined" json:"joined"`
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ValidateCareLevel checks a care-field value against its vocabulary.
// Empty values are allowed; absence means unknown.
func ValidateCareLevel(field, value string) error {
	if value == "" {
		return nil
	}
	var allowed []string
	switch field {
	case "light":
		allowed = LightLevels
	case "water":
		allowed = WaterLevels
	case "temperature":
		allowed = TemperatureLevels
	case "humidity":
		allowed = HumidityLevels
	case "review":
		allowed = ReviewStatuses
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	if !contains(allowed, value) {
		return fmt.Errorf("invalid %s value %q", field, value)
	}
	return nil
}
