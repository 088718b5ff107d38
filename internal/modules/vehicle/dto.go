package vehicle

type CreateVehicleRequest struct {
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Color        string `json:"color"`
	Year         int    `json:"year" binding:"required"`
}
