package request

type LocationInput struct {
	Address string  `json:"address" validate:"required"`
	City    string  `json:"city" validate:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type AvailabilityInput struct {
	Day       string `json:"day" validate:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type CreateVenueRequest struct {
	Name           string              `json:"name" validate:"required"`
	Description    string              `json:"description"`
	Location       LocationInput       `json:"location" validate:"required"`
	Sports         []string            `json:"sports" validate:"required,min=1,dive,required"`
	PricingPerHour int64               `json:"pricing_per_hour" validate:"gte=0"`
	Availability   []AvailabilityInput `json:"availability" validate:"required,min=1,dive"`
	Images         []string            `json:"images"`
}

type UpdateVenueRequest struct {
	Name           *string             `json:"name,omitempty"`
	Description    *string             `json:"description,omitempty"`
	Location       *LocationInput      `json:"location,omitempty"`
	Sports         []string            `json:"sports,omitempty"`
	PricingPerHour *int64              `json:"pricing_per_hour,omitempty" validate:"omitempty,gte=0"`
	Availability   []AvailabilityInput `json:"availability,omitempty" validate:"omitempty,min=1,dive"`
	Images         []string            `json:"images,omitempty"`
}
