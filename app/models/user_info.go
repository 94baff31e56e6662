package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jipsalddae/backend/internal/pkg/eligibility"
)

// Labels used by the profile form for the "etc" household categories.
const (
	ETC_SINGLE_PARENT = "한부모가정"
	ETC_DISABLED      = "장애인가구"
	ETC_MULTICULTURAL = "다문화가정"
	ETC_NONE          = "해당없음"
)

// UserInfo is the household profile a user submits before asking for recommendations.
// There is at most one row per user.
type UserInfo struct {
	InfoID          uint      `gorm:"primaryKey;column:info_id" json:"info_id"`
	UserID          string    `gorm:"uniqueIndex;type:varchar(36);not null" json:"user_id"`
	BirthDate       time.Time `gorm:"type:date" json:"birth_date"`
	Income          int64     `json:"income" validate:"gte=0"`
	Asset           int64     `json:"asset" validate:"gte=0"`
	IsHouseOwner    bool      `gorm:"default:false" json:"is_house_owner"`
	IsMarried       bool      `gorm:"default:false" json:"is_married"`
	IsNewlywed      bool      `gorm:"default:false" json:"is_newlywed"`
	HasNewborn      bool      `gorm:"default:false" json:"has_newborn"`
	DualIncome      bool      `gorm:"default:false" json:"dual_income"`
	IsSingleParent  bool      `gorm:"default:false" json:"is_single_parent"`
	IsDisabled      bool      `gorm:"default:false" json:"is_disabled"`
	IsMulticultural bool      `gorm:"default:false" json:"is_multicultural"`
	ChildCount      int       `gorm:"default:0" json:"child_count" validate:"gte=0"`
	HouseholdSize   int       `json:"household_size" validate:"gte=1"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

func (ui *UserInfo) Validate() error {
	v := validator.New()

	return v.Struct(ui)
}

// AgeAt returns the age in whole years on the given day. The year is not counted
// until the birthday has been reached.
func (ui *UserInfo) AgeAt(now time.Time) int {
	return AgeAt(ui.BirthDate, now)
}

// AgeAt is the birthday-aware age computation shared with request validation.
func AgeAt(birth, now time.Time) int {
	if birth.IsZero() {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// ToProfile projects the stored profile onto the fields the matcher evaluates.
func (ui *UserInfo) ToProfile(now time.Time) eligibility.Profile {
	return eligibility.Profile{
		Age:           ui.AgeAt(now),
		Income:        ui.Income,
		Asset:         ui.Asset,
		IsHouseOwner:  ui.IsHouseOwner,
		IsNewlywed:    ui.IsNewlywed,
		HasNewborn:    ui.HasNewborn,
		ChildCount:    ui.ChildCount,
		HouseholdSize: ui.HouseholdSize,
	}
}

// ApplyEtc sets the household category flags from the form labels.
// Unknown labels (including ETC_NONE) are ignored.
func (ui *UserInfo) ApplyEtc(labels []string) {
	ui.IsSingleParent = false
	ui.IsDisabled = false
	ui.IsMulticultural = false
	for _, l := range labels {
		switch l {
		case ETC_SINGLE_PARENT:
			ui.IsSingleParent = true
		case ETC_DISABLED:
			ui.IsDisabled = true
		case ETC_MULTICULTURAL:
			ui.IsMulticultural = true
		}
	}
}

// EtcLabels is the inverse of ApplyEtc; it never returns an empty slice.
func (ui *UserInfo) EtcLabels() []string {
	labels := make([]string, 0, 3)
	if ui.IsSingleParent {
		labels = append(labels, ETC_SINGLE_PARENT)
	}
	if ui.IsDisabled {
		labels = append(labels, ETC_DISABLED)
	}
	if ui.IsMulticultural {
		labels = append(labels, ETC_MULTICULTURAL)
	}
	if len(labels) == 0 {
		labels = append(labels, ETC_NONE)
	}
	return labels
}
