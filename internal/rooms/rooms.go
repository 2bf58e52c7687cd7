package rooms

import "time"

// Room is a shared study room. Members hold subject identifiers.
type Room struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Topic     string    `bson:"topic,omitempty" json:"topic,omitempty"`
	OwnerSub  string    `bson:"ownerSub" json:"ownerSub"`
	Capacity  int       `bson:"capacity" json:"capacity"`
	Members   []string  `bson:"members" json:"members"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
