package dto

type DeliveryInfoRequest struct {
	UserID          string             `json:"user_id"`
	CurrentLocation *CoordinateRequest `json:"current_location"`
	Subtotal        float64            `json:"subtotal"`
}

type AddressResponse struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	FullAddress string             `json:"full_address"`
	Location    CoordinateResponse `json:"location"`
	IsDefault   bool               `json:"is_default"`
}

type DeliveryInfoResponse struct {
	Address      AddressResponse  `json:"address"`
	FacilityName string           `json:"facility_name"`
	Distance     string           `json:"distance"`
	Duration     string           `json:"duration"`
	Estimate     EstimateResponse `json:"estimate"`
}
