package dashboard

type VendorStats struct {
	Treks              map[string]int64 `json:"treks"`
	Bookings           map[string]int64 `json:"bookings"`
	TravelersBooked    int64            `json:"travelers_booked"`
	Revenue            float64          `json:"revenue"`
	UpcomingDepartures int64            `json:"upcoming_departures"`
}

type AdminStats struct {
	Vendors   map[string]int64 `json:"vendors"`
	Customers map[string]int64 `json:"customers"`
	Treks     map[string]int64 `json:"treks"`
	Bookings  map[string]int64 `json:"bookings"`
	Revenue   float64          `json:"revenue"`
	Discounts float64          `json:"discounts"`
}
