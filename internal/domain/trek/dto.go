package trek

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type TrekRequest struct {
	Title                string               `json:"title" validate:"required,max=200"`
	Description          string               `json:"description"`
	DestinationID        *int64               `json:"destination_id" validate:"omitempty,gt=0"`
	CityIDs              []int64              `json:"city_ids"`
	ActivityIDs          []int64              `json:"activity_ids"`
	Inclusions           []string             `json:"inclusions"`
	Exclusions           []string             `json:"exclusions"`
	Policies             []string             `json:"policies"`
	BasePrice            float64              `json:"base_price" validate:"gte=0"`
	MaxParticipants      int                  `json:"max_participants" validate:"required,gt=0"`
	DurationDays         int                  `json:"duration_days" validate:"required,gt=0"`
	DurationNights       int                  `json:"duration_nights" validate:"gte=0"`
	Difficulty           string               `json:"difficulty" validate:"omitempty,oneof=easy moderate difficult challenging"`
	TrekType             string               `json:"trek_type" validate:"max=32"`
	CancellationPolicyID *int64               `json:"cancellation_policy_id" validate:"omitempty,gt=0"`
	BadgeID              *int64               `json:"badge_id" validate:"omitempty,gt=0"`
	Status               string               `json:"status" validate:"omitempty,oneof=draft published active inactive archived"`
	Itinerary            []ItineraryInput     `json:"itinerary" validate:"dive"`
	Stages               []StageInput         `json:"stages" validate:"dive"`
	Accommodations       []AccommodationInput `json:"accommodations" validate:"dive"`
}

type ItineraryInput struct {
	DayNumber   int      `json:"day_number" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
}

type StageInput struct {
	StageOrder      int        `json:"stage_order" validate:"gte=0"`
	Name            string     `json:"name" validate:"required"`
	Destination     string     `json:"destination"`
	Transport       string     `json:"transport"`
	DepartsAt       *time.Time `json:"departs_at"`
	IsBoardingPoint bool       `json:"is_boarding_point"`
}

type AccommodationInput struct {
	Night    int    `json:"night" validate:"required,gt=0"`
	Type     string `json:"type" validate:"required"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Sharing  string `json:"sharing"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published active inactive archived"`
}

type ImageRequest struct {
	URL       string `json:"url" validate:"required,url"`
	Caption   string `json:"caption"`
	IsCover   bool   `json:"is_cover"`
	SortOrder int    `json:"sort_order"`
}

type ItineraryRequest struct {
	Items []ItineraryInput `json:"items" validate:"dive"`
}

type StagesRequest struct {
	Stages []StageInput `json:"stages" validate:"dive"`
}

type AccommodationsRequest struct {
	Accommodations []AccommodationInput `json:"accommodations" validate:"dive"`
}

// BatchesRequest creates one batch per start date (YYYY-MM-DD).
type BatchesRequest struct {
	StartDates []string `json:"start_dates" validate:"required,min=1,dive,required"`
	Capacity   *int     `json:"capacity" validate:"omitempty,gt=0"`
}

type BatchUpdateRequest struct {
	Capacity *int   `json:"capacity" validate:"omitempty,gt=0"`
	Status   string `json:"status" validate:"omitempty,oneof=open closed cancelled"`
}

type PickupPointRequest struct {
	Name       string `json:"name" validate:"required,max=160"`
	Address    string `json:"address"`
	Landmark   string `json:"landmark"`
	PickupTime string `json:"pickup_time" validate:"max=16"`
}

// PublicFilter narrows the public catalogue.
type PublicFilter struct {
	DestinationID int64
	Difficulty    string
	MinPrice      *float64
	MaxPrice      *float64
	Search        string
	Limit         int
	Offset        int
}

// NormalizeStatus maps the legacy "published" value onto active.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "published" {
		return StatusActive
	}
	return s
}

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}

func jsonList[T any](items []T) datatypes.JSON {
	if items == nil {
		items = []T{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

func (r TrekRequest) toModel(vendorID int64) Trek {
	status := NormalizeStatus(r.Status)
	if status == "" {
		status = StatusDraft
	}
	return Trek{
		VendorID:             vendorID,
		Title:                strings.TrimSpace(r.Title),
		Description:          r.Description,
		DestinationID:        r.DestinationID,
		CityIDs:              jsonList(r.CityIDs),
		ActivityIDs:          jsonList(r.ActivityIDs),
		Inclusions:           jsonList(r.Inclusions),
		Exclusions:           jsonList(r.Exclusions),
		Policies:             jsonList(r.Policies),
		BasePrice:            r.BasePrice,
		MaxParticipants:      r.MaxParticipants,
		DurationDays:         r.DurationDays,
		DurationNights:       r.DurationNights,
		Difficulty:           r.Difficulty,
		TrekType:             r.TrekType,
		CancellationPolicyID: r.CancellationPolicyID,
		BadgeID:              r.BadgeID,
		Status:               status,
	}
}

func (r TrekRequest) fields() map[string]any {
	f := map[string]any{
		"title":                  strings.TrimSpace(r.Title),
		"description":            r.Description,
		"destination_id":         r.DestinationID,
		"city_ids":               jsonList(r.CityIDs),
		"activity_ids":           jsonList(r.ActivityIDs),
		"inclusions":             jsonList(r.Inclusions),
		"exclusions":             jsonList(r.Exclusions),
		"policies":               jsonList(r.Policies),
		"base_price":             r.BasePrice,
		"max_participants":       r.MaxParticipants,
		"duration_days":          r.DurationDays,
		"duration_nights":        r.DurationNights,
		"difficulty":             r.Difficulty,
		"trek_type":              r.TrekType,
		"cancellation_policy_id": r.CancellationPolicyID,
		"badge_id":               r.BadgeID,
	}
	if r.Status != "" {
		f["status"] = NormalizeStatus(r.Status)
	}
	return f
}

func itineraryModels(trekID int64, in []ItineraryInput) []ItineraryItem {
	out := make([]ItineraryItem, 0, len(in))
	for _, it := range in {
		out = append(out, ItineraryItem{
			TrekID: trekID, DayNumber: it.DayNumber, Title: it.Title,
			Description: it.Description, Activities: jsonList(it.Activities),
		})
	}
	return out
}

func stageModels(trekID int64, in []StageInput) []TrekStage {
	out := make([]TrekStage, 0, len(in))
	for i, st := range in {
		order := st.StageOrder
		if order == 0 {
			order = i + 1
		}
		out = append(out, TrekStage{
			TrekID: trekID, StageOrder: order, Name: st.Name, Destination: st.Destination,
			Transport: st.Transport, DepartsAt: st.DepartsAt, IsBoardingPoint: st.IsBoardingPoint,
		})
	}
	return out
}

func accommodationModels(trekID int64, in []AccommodationInput) []Accommodation {
	out := make([]Accommodation, 0, len(in))
	for _, a := range in {
		out = append(out, Accommodation{
			TrekID: trekID, Night: a.Night, Type: a.Type, Name: a.Name,
			Location: a.Location, Sharing: a.Sharing,
		})
	}
	return out
}
