package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"         json:"_id"`
	FullName      string             `bson:"fullName"              json:"fullName"`
	Email         string             `bson:"email"                 json:"email"`
	Password      string             `bson:"password"              json:"-"`
	Bio           string             `bson:"bio,omitempty"         json:"bio,omitempty"`
	ProfilePic    string             `bson:"profilePic,omitempty"  json:"profilePic,omitempty"`
	AgreedToTerms bool               `bson:"agreedToTerms"         json:"agreedToTerms"`
	CreatedAt     time.Time          `bson:"createdAt"             json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"             json:"updatedAt"`
}

type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"    json:"_id"`
	SenderID   primitive.ObjectID `bson:"senderId"         json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId"       json:"receiverId"`
	Text       string             `bson:"text,omitempty"   json:"text,omitempty"`
	Image      string             `bson:"image,omitempty"  json:"image,omitempty"`
	Seen       bool               `bson:"seen"             json:"seen"`
	CreatedAt  time.Time          `bson:"createdAt"        json:"createdAt"`
}
