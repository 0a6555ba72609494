package models

// Route is a route catalog entry. DeliveryDaysRaw is free text such as
// "seg, qua, sex" or "1,3,5"; CutoffTime is "HH:MM".
type Route struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RouteName       string `gorm:"uniqueIndex;not null" json:"route_name"`
	DeliveryDaysRaw string `json:"delivery_days"`
	CutoffTime      string `json:"cutoff_time"`
	City            string `json:"city"`
}

// TableName specifies the table name for Route
func (Route) TableName() string {
	return "routes"
}
