package model

// Location is lookup data for the checkout address autocomplete.
// IsCountry separates country names from city names in one table.
type Location struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"not null;index" json:"name"`
	IsCountry bool   `gorm:"default:false;index" json:"is_country"`
}

func (Location) TableName() string {
	return "locations"
}
