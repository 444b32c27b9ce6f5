package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoommateContact struct {
	Phone string `bson:"phone" json:"phone" validate:"required"`
	Email string `bson:"email" json:"email" validate:"required"`
}

type Preferences struct {
	Smoking  bool `bson:"smoking" json:"smoking"`
	Drinking bool `bson:"drinking" json:"drinking"`
	Pets     bool `bson:"pets" json:"pets"`
	Veg      bool `bson:"veg" json:"veg"`
}

type Roommate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Name         string             `bson:"name" json:"name"`
	Age          int                `bson:"age" json:"age"`
	Gender       string             `bson:"gender" json:"gender"`
	Occupation   string             `bson:"occupation" json:"occupation"`
	Budget       float64            `bson:"budget" json:"budget"`
	Location     string             `bson:"location" json:"location"`
	Description  string             `bson:"description" json:"description"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	ContactInfo  RoommateContact    `bson:"contactInfo" json:"contactInfo"`
	Preferences  Preferences        `bson:"preferences" json:"preferences"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RoommateDetail struct {
	Roommate
	User UserRef `json:"user"`
}

type RoommateInput struct {
	Name         string           `json:"name" validate:"required"`
	Age          int              `json:"age" validate:"required,gt=0"`
	Gender       string           `json:"gender" validate:"required,oneof=Male Female Other"`
	Occupation   string           `json:"occupation" validate:"required,oneof=Student 'Working Professional' Other"`
	Budget       *float64         `json:"budget" validate:"required,gte=0"`
	Location     string           `json:"location" validate:"required"`
	Description  string           `json:"description" validate:"required"`
	ProfileImage string           `json:"profileImage"`
	ContactInfo  *RoommateContact `json:"contactInfo"`
	Preferences  Preferences      `json:"preferences"`
}

// WithCallerDefaults fills name, picture and contact details the client left
// out from the caller's profile.
func (in RoommateInput) WithCallerDefaults(u User) RoommateInput {
	if in.Name == "" {
		in.Name = u.Name
	}
	if in.ProfileImage == "" {
		in.ProfileImage = u.ProfileImage
	}
	if in.ContactInfo == nil {
		in.ContactInfo = &RoommateContact{Phone: u.Phone, Email: u.Email}
	}
	return in
}

func NewRoommate(user primitive.ObjectID, in RoommateInput, now time.Time) Roommate {
	var contact RoommateContact
	if in.ContactInfo != nil {
		contact = *in.ContactInfo
	}
	var budget float64
	if in.Budget != nil {
		budget = *in.Budget
	}
	return Roommate{
		ID:           primitive.NewObjectID(),
		User:         user,
		Name:         in.Name,
		Age:          in.Age,
		Gender:       in.Gender,
		Occupation:   in.Occupation,
		Budget:       budget,
		Location:     in.Location,
		Description:  in.Description,
		ProfileImage: in.ProfileImage,
		ContactInfo:  contact,
		Preferences:  in.Preferences,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type RoommateUpdate struct {
	Name         *string          `json:"name"`
	Age          *int             `json:"age" validate:"omitnil,gt=0"`
	Gender       *string          `json:"gender" validate:"omitnil,oneof=Male Female Other"`
	Occupation   *string          `json:"occupation" validate:"omitnil,oneof=Student 'Working Professional' Other"`
	Budget       *float64         `json:"budget" validate:"omitnil,gte=0"`
	Location     *string          `json:"location"`
	Description  *string          `json:"description"`
	ProfileImage *string          `json:"profileImage"`
	ContactInfo  *RoommateContact `json:"contactInfo"`
	Preferences  *Preferences     `json:"preferences"`
	IsActive     *bool            `json:"isActive"`
}
