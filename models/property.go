package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street  string `bson:"street" json:"street" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	State   string `bson:"state" json:"state" validate:"required"`
	ZipCode string `bson:"zipCode" json:"zipCode" validate:"required"`
}

type Amenities struct {
	WiFi     bool `bson:"wifi" json:"wifi"`
	AC       bool `bson:"ac" json:"ac"`
	Food     bool `bson:"food" json:"food"`
	TV       bool `bson:"tv" json:"tv"`
	Parking  bool `bson:"parking" json:"parking"`
	Laundry  bool `bson:"laundry" json:"laundry"`
	Cleaning bool `bson:"cleaning" json:"cleaning"`
	Security bool `bson:"security" json:"security"`
}

type PropertyContact struct {
	Name  string `bson:"name" json:"name" validate:"required"`
	Phone string `bson:"phone" json:"phone" validate:"required"`
	Email string `bson:"email" json:"email" validate:"required"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Owner        primitive.ObjectID `bson:"owner" json:"owner"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Address      Address            `bson:"address" json:"address"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Price        float64            `bson:"price" json:"price"`
	Deposit      float64            `bson:"deposit" json:"deposit"`
	Amenities    Amenities          `bson:"amenities" json:"amenities"`
	Gender       string             `bson:"gender" json:"gender"`
	ContactInfo  PropertyContact    `bson:"contactInfo" json:"contactInfo"`
	Availability bool               `bson:"availability" json:"availability"`
	Images       []string           `bson:"images" json:"images"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	Rating       float64            `bson:"rating" json:"rating"`
	NumReviews   int                `bson:"numReviews" json:"numReviews"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyDetail is a property whose owner reference has been resolved.
type PropertyDetail struct {
	Property
	Owner UserRef `json:"owner"`
}

// PropertyInput is the create payload. Owner, reviews and the derived rating
// fields are never read from the client.
type PropertyInput struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Address      Address         `json:"address"`
	PropertyType string          `json:"propertyType" validate:"required,oneof=Hostel PG Flat Room"`
	Price        float64         `json:"price" validate:"gte=0"`
	Deposit      float64         `json:"deposit" validate:"gte=0"`
	Amenities    Amenities       `json:"amenities"`
	Gender       string          `json:"gender" validate:"required,oneof=Male Female Unisex"`
	ContactInfo  PropertyContact `json:"contactInfo"`
	Images       []string        `json:"images"`
}

// NewProperty builds the stored document with the documented defaults.
func NewProperty(owner primitive.ObjectID, in PropertyInput, now time.Time) Property {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	return Property{
		ID:           primitive.NewObjectID(),
		Owner:        owner,
		Name:         in.Name,
		Description:  in.Description,
		Address:      in.Address,
		PropertyType: in.PropertyType,
		Price:        in.Price,
		Deposit:      in.Deposit,
		Amenities:    in.Amenities,
		Gender:       in.Gender,
		ContactInfo:  in.ContactInfo,
		Availability: true,
		Images:       images,
		Reviews:      []Review{},
		Rating:       0,
		NumReviews:   0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PropertyUpdate holds the keys present in an update body. A nil field was
// absent and keeps its stored value; a non-nil field overwrites it, zero
// values included.
type PropertyUpdate struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Address      *Address         `json:"address"`
	PropertyType *string          `json:"propertyType" validate:"omitnil,oneof=Hostel PG Flat Room"`
	Price        *float64         `json:"price" validate:"omitnil,gte=0"`
	Deposit      *float64         `json:"deposit" validate:"omitnil,gte=0"`
	Amenities    *Amenities       `json:"amenities"`
	Gender       *string          `json:"gender" validate:"omitnil,oneof=Male Female Unisex"`
	ContactInfo  *PropertyContact `json:"contactInfo"`
	Availability *bool            `json:"availability"`
	Images       []string         `json:"images"`
}

// Rating accepts either a JSON number or a numeric string such as "4", which
// is what form selects post. An empty string decodes as zero.
type Rating int

func (r *Rating) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*r = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("rating %q is not a whole number", raw)
	}
	*r = Rating(n)
	return nil
}

type ReviewInput struct {
	Rating  Rating `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

func NewReview(by User, in ReviewInput, now time.Time) Review {
	return Review{
		ID:        primitive.NewObjectID(),
		User:      by.ID,
		Name:      by.Name,
		Rating:    int(in.Rating),
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasReviewFrom reports whether user already reviewed the property.
func (p Property) HasReviewFrom(user primitive.ObjectID) bool {
	for _, r := range p.Reviews {
		if r.User == user {
			return true
		}
	}
	return false
}
