package dto

type ValidateVisitRequest struct {
	StoreId   string  `json:"store_id" validate:"required,uuid"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type ValidateVisitResponse struct {
	StoreId        string  `json:"store_id"`
	StoreName      string  `json:"store_name"`
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
	Valid          bool    `json:"valid"`
}
