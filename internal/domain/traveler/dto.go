package traveler

import "strings"

// Participant is one person on a booking request.
type Participant struct {
	Name                    string `json:"name" validate:"required,max=120"`
	Age                     int    `json:"age" validate:"gte=0,lte=120"`
	Gender                  string `json:"gender" validate:"omitempty,oneof=male female other"`
	Phone                   string `json:"phone" validate:"omitempty,max=20"`
	Email                   string `json:"email" validate:"omitempty,email"`
	EmergencyContactName    string `json:"emergency_contact_name"`
	EmergencyContactPhone   string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	MedicalConditions       string `json:"medical_conditions"`
	DietaryRestrictions     string `json:"dietary_restrictions"`
	AccommodationPreference string `json:"accommodation_preference"`
	MealPreference          string `json:"meal_preference"`
}

type TravelerRequest struct {
	Name                  string `json:"name" validate:"required,max=120"`
	Age                   int    `json:"age" validate:"gte=0,lte=120"`
	Gender                string `json:"gender" validate:"omitempty,oneof=male female other"`
	Phone                 string `json:"phone" validate:"omitempty,max=20"`
	Email                 string `json:"email" validate:"omitempty,email"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	MedicalConditions     string `json:"medical_conditions"`
	DietaryRestrictions   string `json:"dietary_restrictions"`
}

func (p Participant) toModel(customerID int64) Traveler {
	return Traveler{
		CustomerID:            customerID,
		Name:                  strings.TrimSpace(p.Name),
		Age:                   p.Age,
		Gender:                p.Gender,
		Phone:                 strings.TrimSpace(p.Phone),
		Email:                 p.Email,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		MedicalConditions:     p.MedicalConditions,
		DietaryRestrictions:   p.DietaryRestrictions,
		IsActive:              true,
	}
}

func (r TravelerRequest) participant() Participant {
	return Participant{
		Name: r.Name, Age: r.Age, Gender: r.Gender, Phone: r.Phone, Email: r.Email,
		EmergencyContactName: r.EmergencyContactName, EmergencyContactPhone: r.EmergencyContactPhone,
		MedicalConditions: r.MedicalConditions, DietaryRestrictions: r.DietaryRestrictions,
	}
}

func (r TravelerRequest) fields() map[string]any {
	return map[string]any{
		"name":                    strings.TrimSpace(r.Name),
		"age":                     r.Age,
		"gender":                  r.Gender,
		"phone":                   strings.TrimSpace(r.Phone),
		"email":                   r.Email,
		"emergency_contact_name":  r.EmergencyContactName,
		"emergency_contact_phone": r.EmergencyContactPhone,
		"medical_conditions":      r.MedicalConditions,
		"dietary_restrictions":    r.DietaryRestrictions,
	}
}
