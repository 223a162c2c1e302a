package reference

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// input is implemented by each create/update body.
type input[T any] interface {
	toModel() T
	fields() map[string]any
	nameValue() string
}

type DestinationRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsPopular   bool   `json:"is_popular"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r DestinationRequest) nameValue() string { return strings.TrimSpace(r.Name) }

func (r DestinationRequest) toModel() Destination {
	country := r.Country
	if country == "" {
		country = "India"
	}
	return Destination{
		Name: r.nameValue(), State: r.State, Country: country, Description: r.Description,
		ImageURL: r.ImageURL, IsPopular: r.IsPopular, Status: statusOrActive(r.Status),
	}
}

func (r DestinationRequest) fields() map[string]any {
	f := map[string]any{
		"name": r.nameValue(), "state": r.State, "description": r.Description,
		"image_url": r.ImageURL, "is_popular": r.IsPopular,
	}
	if r.Country != "" {
		f["country"] = r.Country
	}
	if r.Status != "" {
		f["status"] = r.Status
	}
	return f
}

type CityRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	DestinationID *int64 `json:"destination_id" validate:"omitempty,gt=0"`
	State         string `json:"state"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r CityRequest) nameValue() string { return strings.TrimSpace(r.Name) }

func (r CityRequest) toModel() City {
	return City{Name: r.nameValue(), DestinationID: r.DestinationID, State: r.State, Status: statusOrActive(r.Status)}
}

func (r CityRequest) fields() map[string]any {
	f := map[string]any{"name": r.nameValue(), "destination_id": r.DestinationID, "state": r.State}
	if r.Status != "" {
		f["status"] = r.Status
	}
	return f
}

type ActivityRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r ActivityRequest) nameValue() string { return strings.TrimSpace(r.Name) }

func (r ActivityRequest) toModel() Activity {
	return Activity{Name: r.nameValue(), Category: r.Category, Description: r.Description, Icon: r.Icon, Status: statusOrActive(r.Status)}
}

func (r ActivityRequest) fields() map[string]any {
	f := map[string]any{"name": r.nameValue(), "category": r.Category, "description": r.Description, "icon": r.Icon}
	if r.Status != "" {
		f["status"] = r.Status
	}
	return f
}

type BadgeRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Icon        string `json:"icon"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r BadgeRequest) nameValue() string { return strings.TrimSpace(r.Name) }

func (r BadgeRequest) toModel() Badge {
	return Badge{Name: r.nameValue(), Icon: r.Icon, Color: r.Color, Description: r.Description, Status: statusOrActive(r.Status)}
}

func (r BadgeRequest) fields() map[string]any {
	f := map[string]any{"name": r.nameValue(), "icon": r.Icon, "color": r.Color, "description": r.Description}
	if r.Status != "" {
		f["status"] = r.Status
	}
	return f
}

type CancellationPolicyRequest struct {
	Name        string       `json:"name" validate:"required,max=120"`
	Description string       `json:"description"`
	Rules       []PolicyRule `json:"rules" validate:"dive"`
	Status      string       `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r CancellationPolicyRequest) nameValue() string { return strings.TrimSpace(r.Name) }

func (r CancellationPolicyRequest) toModel() CancellationPolicy {
	return CancellationPolicy{
		Name: r.nameValue(), Description: r.Description, Rules: rulesJSON(r.Rules), Status: statusOrActive(r.Status),
	}
}

func (r CancellationPolicyRequest) fields() map[string]any {
	f := map[string]any{"name": r.nameValue(), "description": r.Description, "rules": rulesJSON(r.Rules)}
	if r.Status != "" {
		f["status"] = r.Status
	}
	return f
}

func rulesJSON(rules []PolicyRule) datatypes.JSON {
	if rules == nil {
		rules = []PolicyRule{}
	}
	b, _ := json.Marshal(rules)
	return datatypes.JSON(b)
}

func statusOrActive(s string) string {
	if s == "" {
		return StatusActive
	}
	return s
}
