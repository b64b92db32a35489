package models

import "slices"

// Book conditions, best first.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionWorn    = "worn"
)

var Conditions = []string{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionFair,
	ConditionWorn,
}

var Subjects = []string{
	"general_education",
	"science_engineering",
	"humanities_social",
	"business_management",
	"language",
	"arts_design",
	"medicine_health",
	"law_politics",
	"other",
}

var BookStatuses = []BookStatus{BookAvailable, BookReserved, BookSold}

// ConditionRank returns the position of condition in Conditions (0 is best),
// or -1 for an unknown value.
func ConditionRank(condition string) int {
	return slices.Index(Conditions, condition)
}

func IsConditionWorse(original, current string) bool {
	o, c := ConditionRank(original), ConditionRank(current)
	if o < 0 || c < 0 {
		return false
	}
	return c > o
}

func IsValidSubject(subject string) bool {
	return slices.Contains(Subjects, subject)
}

func IsValidBookStatus(status BookStatus) bool {
	return slices.Contains(BookStatuses, status)
}

func IsValidCondition(condition string) bool {
	return ConditionRank(condition) >= 0
}
