package model

import "time"

// TravelStyle is the closed set of ways a trip can be taken.
type TravelStyle string

const (
	TravelStyleBackpacker TravelStyle = "BACKPACKER"
	TravelStyleLuxury     TravelStyle = "LUXURY"
	TravelStyleStandard   TravelStyle = "STANDARD"
)

// Valid reports whether s is one of the known travel styles.
func (s TravelStyle) Valid() bool {
	switch s {
	case TravelStyleBackpacker, TravelStyleLuxury, TravelStyleStandard:
		return true
	}
	return false
}

// Trip represents a trip in the database. UserID is set once at creation.
type Trip struct {
	ID           int64       `db:"id"`
	UserID       int64       `db:"user_id"`
	Destination  string      `db:"destination"`
	Budget       float64     `db:"budget"`
	TravelStyle  TravelStyle `db:"travel_style"`
	RequiresVisa bool        `db:"requires_visa"`
	GroupSize    string      `db:"group_size"`
	StartDate    Date        `db:"start_date"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

// TripRequest is the body of create and update requests.
// Pointers distinguish a missing field from its zero value.
type TripRequest struct {
	Destination  string   `json:"destination" validate:"notblank,min=3,max=255"`
	Budget       *float64 `json:"budget" validate:"required,gt=0"`
	TravelStyle  string   `json:"travelStyle" validate:"required,oneof=BACKPACKER LUXURY STANDARD"`
	RequiresVisa *bool    `json:"requiresVisa"`
	GroupSize    string   `json:"groupSize" validate:"notblank"`
	StartDate    *Date    `json:"startDate" validate:"required,future"`
}

// TripInput is a validated TripRequest as consumed by the service layer.
type TripInput struct {
	Destination  string
	Budget       float64
	TravelStyle  TravelStyle
	RequiresVisa bool
	GroupSize    string
	StartDate    Date
}

// Input converts a validated request. RequiresVisa defaults to false.
func (r TripRequest) Input() TripInput {
	in := TripInput{
		Destination: r.Destination,
		TravelStyle: TravelStyle(r.TravelStyle),
		GroupSize:   r.GroupSize,
	}
	if r.Budget != nil {
		in.Budget = *r.Budget
	}
	if r.RequiresVisa != nil {
		in.RequiresVisa = *r.RequiresVisa
	}
	if r.StartDate != nil {
		in.StartDate = *r.StartDate
	}
	return in
}

// TripResponse is the JSON shape of a trip.
type TripResponse struct {
	ID           int64     `json:"id"`
	Destination  string    `json:"destination"`
	Budget       float64   `json:"budget"`
	TravelStyle  string    `json:"travelStyle"`
	RequiresVisa bool      `json:"requiresVisa"`
	GroupSize    string    `json:"groupSize"`
	StartDate    Date      `json:"startDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
