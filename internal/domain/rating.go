package domain

import "time"

// Rating is a passenger's post-trip feedback on a driver.
// At most one rating exists per (trip, passenger) pair.
type Rating struct {
	ID           string
	TripID       string
	PassengerID  string
	DriverID     string
	Overall      int // 1-5
	Punctuality  int // optional sub-scores, 0 when not given
	Vehicle      int
	Driving      int
	Friendliness int
	Comment      string
	Recommend    bool
	CreatedAt    time.Time
}

// RatingResponse is the driver's single textual reply to a rating.
type RatingResponse struct {
	ID        string
	RatingID  string
	DriverID  string
	Reply     string
	CreatedAt time.Time
}

// DriverStats aggregates a driver's trips and ratings.
type DriverStats struct {
	DriverID        string
	TripsCompleted  int
	RatingCount     int
	AvgOverall      float64
	AvgPunctuality  float64
	AvgVehicle      float64
	AvgDriving      float64
	AvgFriendliness float64
	RecommendPct    float64
	Distribution    [5]int // index 0 = one star
}

// RankingEntry is one row of the driver leaderboard.
type RankingEntry struct {
	DriverID       string
	Name           string
	AvgRating      float64
	RatingCount    int
	TripsCompleted int
}
