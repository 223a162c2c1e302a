package review

type RatingInput struct {
	CategoryID int64   `json:"category_id" validate:"required,gt=0"`
	Value      float64 `json:"value" validate:"gte=0,lte=5"`
}

type CreateRequest struct {
	TrekID    int64         `json:"trek_id" validate:"required,gt=0"`
	BookingID *int64        `json:"booking_id" validate:"omitempty,gt=0"`
	Title     string        `json:"title" validate:"max=200"`
	Comment   string        `json:"comment" validate:"required,max=5000"`
	Ratings   []RatingInput `json:"ratings" validate:"max=20,dive"`
}

type RateRequest struct {
	Ratings []RatingInput `json:"ratings" validate:"required,min=1,max=20,dive"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved hidden"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

type CategorySummary struct {
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	Average    float64 `json:"average"`
	Count      int64   `json:"count"`
}

// Summary is the rating picture of one trek.
type Summary struct {
	TrekID      int64             `json:"trek_id"`
	Overall     float64           `json:"overall"`
	RatingCount int64             `json:"rating_count"`
	ReviewCount int64             `json:"review_count"`
	Categories  []CategorySummary `json:"categories"`
}

// TrekReviews is the public reviews page of a trek.
type TrekReviews struct {
	Summary *Summary `json:"summary"`
	Items   []Review `json:"items"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}
