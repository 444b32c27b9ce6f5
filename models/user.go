package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Password     string             `bson:"password" json:"-"`
	IsOwner      bool               `bson:"isOwner" json:"isOwner"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the public projection of a user embedded in listing responses.
type UserRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name,omitempty"`
	Email string             `json:"email,omitempty"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	IsOwner  bool   `json:"isOwner"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" validate:"omitnil,email"`
	Phone        *string `json:"phone"`
	Password     *string `json:"password" validate:"omitnil,min=6"`
	ProfileImage *string `json:"profileImage"`
}
