package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cat is a genetically-engineered cat specimen. Traits are derived
// deterministically from the genome; SvgImage is rendered elsewhere and is
// only ever read here.
type Cat struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Genome    string        `bson:"genome" json:"genome"`
	Traits    CatTraits     `bson:"traits" json:"traits"`
	SvgImage  string        `bson:"svgImage,omitempty" json:"svgImage,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type CatTraits struct {
	Size          int    `bson:"size" json:"size"`                   // cm at the shoulder
	Fluffiness    int    `bson:"fluffiness" json:"fluffiness"`       // 1..10
	GlowIntensity int    `bson:"glowIntensity" json:"glowIntensity"` // 0..100
	WhiskerLength int    `bson:"whiskerLength" json:"whiskerLength"` // mm
	Temperament   string `bson:"temperament" json:"temperament"`
	CoatPattern   string `bson:"coatPattern" json:"coatPattern"`
}
