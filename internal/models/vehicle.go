package models

// Vehicle profile tags
const (
	ProfileLongHaul = "long-haul"
	ProfileRegional = "regional"
	ProfileLocal    = "local"
	ProfileLowLoad  = "low-load"
)

// Vehicle is a fleet entry
type Vehicle struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CapacityKg float64 `json:"capacity_kg"`
	ProfileTag string  `json:"profile_tag"`
	Active     bool    `json:"active"`
}
