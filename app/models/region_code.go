package models

// RegionCode maps a 5-digit legal-district (LAWD) code to its sido and sigungu.
// Sigungu is nil for rows that describe a whole sido.
type RegionCode struct {
	Code    string  `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Sido    string  `gorm:"index;type:varchar(50);not null" json:"sido"`
	Sigungu *string `gorm:"index;type:varchar(50)" json:"sigungu"`
}

func (RegionCode) TableName() string {
	return "region_code"
}
