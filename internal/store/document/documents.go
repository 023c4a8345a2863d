package document

import (
	"time"

	"github.com/agenthands/homefeed/internal/core/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	AuthorID  primitive.ObjectID `bson:"authorId"`
	Text      string             `bson:"text"`
	Hashtags  []string           `bson:"hashtags,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (p postDocument) toModel() model.ContentItem {
	hashtags := p.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return model.ContentItem{
		ID:        model.ItemID(p.ID.Hex()),
		AuthorID:  model.UserID(p.AuthorID.Hex()),
		Text:      p.Text,
		Hashtags:  hashtags,
		CreatedAt: p.CreatedAt,
	}
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Handle    string             `bson:"handle"`
	Name      string             `bson:"name,omitempty"`
	Bio       string             `bson:"bio,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func (u userDocument) toModel() model.User {
	return model.User{
		ID:        model.UserID(u.ID.Hex()),
		Handle:    u.Handle,
		Name:      u.Name,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

type likeCount struct {
	ItemID primitive.ObjectID `bson:"_id"`
	Count  int                `bson:"count"`
}
