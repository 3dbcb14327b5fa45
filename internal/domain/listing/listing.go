// Package listing holds the stored short-term rental record and its public projection.
package listing

import (
	"encoding/json"
	"fmt"
	"time"
)

// Listing is a short-term rental record as stored in the document store.
type Listing struct {
	ID                   int64        `json:"_id"`
	ListingURL           string       `json:"listing_url"`
	Name                 string       `json:"name"`
	Summary              *string      `json:"summary,omitempty"`
	Space                *string      `json:"space,omitempty"`
	Description          string       `json:"description"`
	NeighborhoodOverview *string      `json:"neighborhood_overview,omitempty"`
	Notes                *string      `json:"notes,omitempty"`
	Transit              *string      `json:"transit,omitempty"`
	Access               *string      `json:"access,omitempty"`
	Interaction          *string      `json:"interaction,omitempty"`
	HouseRules           *string      `json:"house_rules,omitempty"`
	PropertyType         *string      `json:"property_type,omitempty"`
	RoomType             string       `json:"room_type"`
	BedType              string       `json:"bed_type"`
	MinimumNights        int          `json:"minimum_nights"`
	MaximumNights        int          `json:"maximum_nights"`
	CancellationPolicy   *string      `json:"cancellation_policy,omitempty"`
	LastScraped          *time.Time   `json:"last_scraped,omitempty"`
	CalendarLastScraped  *time.Time   `json:"calendar_last_scraped,omitempty"`
	FirstReview          *time.Time   `json:"first_review,omitempty"`
	LastReview           *time.Time   `json:"last_review,omitempty"`
	Accommodates         int          `json:"accommodates"`
	Bedrooms             int          `json:"bedrooms"`
	Beds                 int          `json:"beds"`
	NumberOfReviews      int          `json:"number_of_reviews"`
	Bathrooms            float64      `json:"bathrooms"`
	Amenities            []string     `json:"amenities"`
	Price                float64      `json:"price"`
	SecurityDeposit      *int         `json:"security_deposit,omitempty"`
	CleaningFee          *int         `json:"cleaning_fee,omitempty"`
	ExtraPeople          int          `json:"extra_people"`
	GuestsIncluded       int          `json:"guests_included"`
	WeeklyPrice          *float64     `json:"weekly_price,omitempty"`
	MonthlyPrice         *float64     `json:"monthly_price,omitempty"`
	Host                 Host         `json:"host"`
	Address              Address      `json:"address"`
	Availability         Availability `json:"availability"`
	ReviewScores         ReviewScores `json:"review_scores"`
	Reviews              []Review     `json:"reviews"`
	TextEmbeddings       []float64    `json:"text_embeddings"`
}

// Host describes the listing owner.
type Host struct {
	HostID                string   `json:"host_id"`
	HostURL               string   `json:"host_url"`
	HostName              string   `json:"host_name"`
	HostLocation          string   `json:"host_location"`
	HostAbout             *string  `json:"host_about,omitempty"`
	HostResponseTime      *string  `json:"host_response_time,omitempty"`
	HostThumbnailURL      string   `json:"host_thumbnail_url"`
	HostPictureURL        string   `json:"host_picture_url"`
	HostNeighbourhood     *string  `json:"host_neighbourhood,omitempty"`
	HostResponseRate      *int     `json:"host_response_rate,omitempty"`
	HostIsSuperhost       bool     `json:"host_is_superhost"`
	HostHasProfilePic     bool     `json:"host_has_profile_pic"`
	HostIdentityVerified  bool     `json:"host_identity_verified"`
	HostListingsCount     int      `json:"host_listings_count"`
	HostTotalListingCount int      `json:"host_total_listings_count"`
	HostVerifications     []string `json:"host_verifications"`
}

// Address is the listing postal address.
type Address struct {
	Street         string   `json:"street"`
	Suburb         *string  `json:"suburb,omitempty"`
	GovernmentArea string   `json:"government_area"`
	Market         string   `json:"market"`
	Country        string   `json:"country"`
	CountryCode    string   `json:"country_code"`
	Location       Location `json:"location"`
}

// Location is a GeoJSON point.
type Location struct {
	Type            string    `json:"type"`
	Coordinates     []float64 `json:"coordinates"`
	IsLocationExact bool      `json:"is_location_exact"`
}

// Availability holds rolling availability windows in days.
type Availability struct {
	Availability30  int `json:"availability_30"`
	Availability60  int `json:"availability_60"`
	Availability90  int `json:"availability_90"`
	Availability365 int `json:"availability_365"`
}

// ReviewScores holds the aggregated guest ratings.
type ReviewScores struct {
	Accuracy      *int `json:"review_scores_accuracy,omitempty"`
	Cleanliness   *int `json:"review_scores_cleanliness,omitempty"`
	Checkin       *int `json:"review_scores_checkin,omitempty"`
	Communication *int `json:"review_scores_communication,omitempty"`
	Location      *int `json:"review_scores_location,omitempty"`
	Value         *int `json:"review_scores_value,omitempty"`
	Rating        *int `json:"review_scores_rating,omitempty"`
}

// Review is a single guest review.
type Review struct {
	ID           string     `json:"_id"`
	Date         *time.Time `json:"date,omitempty"`
	ListingID    string     `json:"listing_id"`
	ReviewerID   string     `json:"reviewer_id"`
	ReviewerName string     `json:"reviewer_name"`
	Comments     *string    `json:"comments,omitempty"`
}

// Decode parses a stored JSON document. Absent bathrooms decode as 0,
// absent reviews and text_embeddings as empty slices.
func Decode(data []byte) (*Listing, error) {
	var l Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if l.Reviews == nil {
		l.Reviews = []Review{}
	}
	if l.TextEmbeddings == nil {
		l.TextEmbeddings = []float64{}
	}
	return &l, nil
}
