package match

import "time"

// Standing is one entrant's aggregate over a tournament.
type Standing struct {
	Name      string  `json:"name" bson:"name"`
	Games     int     `json:"games" bson:"games"`
	Wins      float64 `json:"wins" bson:"wins"`
	TileShare float64 `json:"tile_share" bson:"tile_share"`
	Forfeits  int     `json:"forfeits" bson:"forfeits"`
}

// Report is what a finished tournament leaves behind.
type Report struct {
	ID        string     `json:"id" bson:"_id"`
	Rounds    int        `json:"rounds" bson:"rounds"`
	Standings []Standing `json:"standings" bson:"standings"`
	StartedAt time.Time  `json:"started_at" bson:"started_at"`
	Duration  string     `json:"duration" bson:"duration"`
}
