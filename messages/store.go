package messages

import (
	"chatwire/db"
	"chatwire/models"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence seam under the message handlers. The mongo
// implementation below is the production one; tests swap in an in-memory
// double to drive the seen-reconciliation paths.
type Store interface {
	// Contacts returns every user except the excluded one, passwords
	// projected out.
	Contacts(ctx context.Context, exclude primitive.ObjectID) ([]models.User, error)
	// CountUnseen counts messages from sender to receiver with seen=false.
	CountUnseen(ctx context.Context, senderID, receiverID primitive.ObjectID) (int64, error)
	// Conversation returns both directions between a and b, oldest first.
	Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	// MarkConversationSeen flips every unseen message from sender to
	// receiver to seen.
	MarkConversationSeen(ctx context.Context, senderID, receiverID primitive.ObjectID) error
	// MarkSeen flips one message to seen. Already-seen and unknown ids
	// are no-ops.
	MarkSeen(ctx context.Context, msgID primitive.ObjectID) error
	// Insert persists a message and returns it with its assigned id.
	Insert(ctx context.Context, msg models.Message) (models.Message, error)
}

var store Store = mongoStore{}

type mongoStore struct{}

func (mongoStore) Contacts(ctx context.Context, exclude primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := db.UserCollection.Find(ctx, bson.M{"_id": bson.M{"$ne": exclude}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (mongoStore) CountUnseen(ctx context.Context, senderID, receiverID primitive.ObjectID) (int64, error) {
	return db.MessagesCollection.CountDocuments(ctx, bson.M{
		"senderId":   senderID,
		"receiverId": receiverID,
		"seen":       false,
	})
}

func (mongoStore) Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"senderId": a, "receiverId": b},
		{"senderId": b, "receiverId": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := db.MessagesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (mongoStore) MarkConversationSeen(ctx context.Context, senderID, receiverID primitive.ObjectID) error {
	_, err := db.MessagesCollection.UpdateMany(ctx,
		bson.M{"senderId": senderID, "receiverId": receiverID, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	return err
}

func (mongoStore) MarkSeen(ctx context.Context, msgID primitive.ObjectID) error {
	_, err := db.MessagesCollection.UpdateOne(ctx,
		bson.M{"_id": msgID},
		bson.M{"$set": bson.M{"seen": true}},
	)
	return err
}

func (mongoStore) Insert(ctx context.Context, msg models.Message) (models.Message, error) {
	res, err := db.MessagesCollection.InsertOne(ctx, msg)
	if err != nil {
		return models.Message{}, err
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)
	return msg, nil
}
