package models

import "time"

// Walk is one bookable Great Walk location from the walks config file.
type Walk struct {
	Name    string `json:"name"`
	PlaceID int    `json:"placeId"`
	Enabled bool   `json:"enabled"`
}

// DateWindow is one contiguous span of nights queried in a single API call.
type DateWindow struct {
	ArrivalDate time.Time
	Nights      int
}

// SearchRequest is the payload for the booking API's availability search.
// The field names, including the misspelled "accomodation", are what the
// upstream service expects.
type SearchRequest struct {
	Accomodation             string `json:"accomodation"`
	PlaceID                  int    `json:"placeId"`
	CustomerClassificationID int    `json:"customerClassificationId"`
	ArrivalDate              string `json:"arrivalDate"`
	Nights                   int    `json:"nights"`
}

// NewSearchRequest builds the search payload for one walk and date window.
func NewSearchRequest(walk Walk, window DateWindow) SearchRequest {
	return SearchRequest{
		Accomodation:             "",
		PlaceID:                  walk.PlaceID,
		CustomerClassificationID: 0,
		ArrivalDate:              window.ArrivalDate.Format("2006-01-02"),
		Nights:                   window.Nights,
	}
}

// SearchResponse is the booking API's availability search response.
type SearchResponse struct {
	GreatWalkFacilityData []Facility `json:"GreatWalkFacilityData"`
}

// Facility is one hut or campsite within a walk. The nested per-date
// entries carry the actual availability numbers.
type Facility struct {
	FacilityName              string         `json:"FacilityName"`
	FacilityID                int            `json:"FacilityId"`
	GreatWalkFacilityDateData []FacilityDate `json:"GreatWalkFacilityDateData"`
}

// FacilityDate is the availability of one facility on one night. The
// numeric fields are pointers because the upstream omits them or sends
// null for some facility types.
type FacilityDate struct {
	ArrivalDate    string   `json:"ArrivalDate"`
	TotalCapacity  *int     `json:"TotalCapacity"`
	TotalAvailable *int     `json:"TotalAvailable"`
	BookingStatus  string   `json:"BookingStatus"`
	Price          *float64 `json:"Price"`
}

// AvailabilityRecord is one flattened output row: the availability of one
// facility on one date as observed at one point in time.
type AvailabilityRecord struct {
	CheckTimestamp time.Time `json:"check_timestamp"`
	WalkName       string    `json:"walk_name"`
	PlaceID        int       `json:"place_id"`
	FacilityName   string    `json:"facility_name"`
	FacilityID     int       `json:"facility_id"`
	TargetDate     string    `json:"target_date"`
	TotalCapacity  int       `json:"total_capacity"`
	TotalAvailable int       `json:"total_available"`
	BookingStatus  string    `json:"booking_status"`
	Price          float64   `json:"price"`
}
