package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Sentiment is the emotional tone assigned by classification.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Priority is the triage urgency assigned by classification. P0 is most urgent.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Analysis is the structured classification of a feedback text. It is set
// once at creation; only NextAction is mutable afterwards.
type Analysis struct {
	Summary    string    `bson:"summary" json:"summary"`
	Sentiment  Sentiment `bson:"sentiment" json:"sentiment"`
	Tags       []string  `bson:"tags" json:"tags"`
	Priority   Priority  `bson:"priority" json:"priority"`
	NextAction string    `bson:"nextAction" json:"nextAction"`
}

type Feedback struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Text      string         `bson:"text" json:"text"`
	Email     string         `bson:"email,omitempty" json:"email,omitempty"`
	Analysis  Analysis       `bson:"analysis" json:"analysis"`
	CatID     *bson.ObjectID `bson:"catId,omitempty" json:"catId,omitempty"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`

	// Joined from the cats collection on single-item reads; never written
	// back to the feedbacks collection.
	CatName     string `bson:"catName,omitempty" json:"catName,omitempty"`
	CatSvgImage string `bson:"catSvgImage,omitempty" json:"catSvgImage,omitempty"`
}
