package entity

type Venue struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string  `gorm:"not null;size:255;uniqueIndex" validate:"required,max=255"`
	Latitude  float64 `gorm:"not null" validate:"gte=-90,lte=90"`
	Longitude float64 `gorm:"not null" validate:"gte=-180,lte=180"`
}

func (v *Venue) String() string {
	return v.Name
}
