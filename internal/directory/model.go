package directory

// Nullable columns are pointers so they encode as JSON null.

type Company struct {
	ID        int64    `json:"company_id" yaml:"company_id"`
	Name      *string  `json:"name" yaml:"name"`
	Address   *string  `json:"address" yaml:"address"`
	Latitude  *float64 `json:"latitude" yaml:"latitude"`
	Longitude *float64 `json:"longitude" yaml:"longitude"`
}

type Location struct {
	ID        int64    `json:"location_id" yaml:"location_id"`
	CompanyID *int64   `json:"company_id" yaml:"company_id"`
	Name      *string  `json:"name" yaml:"name"`
	Address   *string  `json:"address" yaml:"address"`
	Latitude  *float64 `json:"latitude" yaml:"latitude"`
	Longitude *float64 `json:"longitude" yaml:"longitude"`
}
