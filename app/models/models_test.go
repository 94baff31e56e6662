package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAtBirthday(t *testing.T) {
	birth := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 34, AgeAt(birth, time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 34, AgeAt(birth, time.Date(2025, time.June, 14, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 35, AgeAt(birth, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 35, AgeAt(birth, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 36, AgeAt(birth, time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, AgeAt(time.Time{}, time.Now()))
}

func TestEtcRoundTrip(t *testing.T) {
	ui := &UserInfo{}
	assert.Equal(t, []string{ETC_NONE}, ui.EtcLabels())

	ui.ApplyEtc([]string{ETC_DISABLED, ETC_SINGLE_PARENT, "unknown"})
	assert.True(t, ui.IsSingleParent)
	assert.True(t, ui.IsDisabled)
	assert.False(t, ui.IsMulticultural)
	assert.Equal(t, []string{ETC_SINGLE_PARENT, ETC_DISABLED}, ui.EtcLabels())

	ui.ApplyEtc([]string{ETC_NONE})
	assert.Equal(t, []string{ETC_NONE}, ui.EtcLabels())
}

func TestUserInfoValidate(t *testing.T) {
	ui := &UserInfo{UserID: "u", HouseholdSize: 1}
	require.NoError(t, ui.Validate())

	ui.HouseholdSize = 0
	assert.Error(t, ui.Validate())

	ui.HouseholdSize = 2
	ui.Income = -1
	assert.Error(t, ui.Validate())
}

func TestPolicyRuleNullColumns(t *testing.T) {
	rule := (&PolicyRule{PolicyID: 4, Income: 120}).ToRule()

	assert.Equal(t, 4, rule.PolicyID)
	assert.Zero(t, rule.MinAge)
	assert.Zero(t, rule.MaxAge)
	assert.Zero(t, rule.AssetLimit)
	assert.Zero(t, rule.MinChildren)
	assert.False(t, rule.HouseOwnerAllowed)

	yes, minAge, limit := true, 19, int64(300_000_000)
	rule = (&PolicyRule{PolicyID: 4, HouseOwnerAllowed: &yes, MinAge: &minAge, AssetLimit: &limit}).ToRule()
	assert.True(t, rule.HouseOwnerAllowed)
	assert.Equal(t, 19, rule.MinAge)
	assert.Equal(t, int64(300_000_000), rule.AssetLimit)
}

func TestParseKoreanAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"6억", 600_000_000, true},
		{"9억 원", 900_000_000, true},
		{"600,000,000", 600_000_000, true},
		{"6억5천만원", 650_000_000, true},
		{"1.5억", 150_000_000, true},
		{"5억 이하(수도권)", 500_000_000, true},
		{"3천만원", 30_000_000, true},
		{"", 0, false},
		{"제한없음", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseKoreanAmount(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPolicyOutputIsNationwide(t *testing.T) {
	assert.True(t, (&PolicyOutput{Region: "전국"}).IsNationwide())
	assert.True(t, (&PolicyOutput{Region: " "}).IsNationwide())
	assert.False(t, (&PolicyOutput{Region: "서울특별시"}).IsNationwide())
}

func TestCreateUser(t *testing.T) {
	_, err := CreateUser("tester", "nick", "123")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	u, err := CreateUser("tester", "nick", "secret")
	require.NoError(t, err)
	assert.Equal(t, PROVIDER_LOCAL, u.Provider)
	assert.True(t, u.CheckPassword("secret"))
	assert.False(t, u.CheckPassword("wrong"))

	social := NewSocialUser(PROVIDER_KAKAO, "12345", "")
	assert.Equal(t, "kakao_12345", social.Username)
	assert.True(t, social.IsSocial())
	assert.False(t, social.CheckPassword(""))
}
