package eligibility

// Profile is the part of a user's household profile the predicates look at.
// Age is already derived from the birth date.
type Profile struct {
	Age           int
	Income        int64
	Asset         int64
	IsHouseOwner  bool
	IsNewlywed    bool
	HasNewborn    bool
	ChildCount    int
	HouseholdSize int
}
