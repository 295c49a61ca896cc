package dto

type GeocodeResponse struct {
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	FullAddress string `json:"full_address"`
	Landmark    string `json:"landmark,omitempty"`
}
