package domain

// Categories lists the boards a post can belong to, in display order.
var Categories = []string{"게임", "스터디", "영화", "운동", "밥약"}

// Pseudo-categories used as list headings.
const (
	CategoryAll    = "전체"
	CategorySearch = "검색결과"
)

// AnonymousName is shown for content without a signed-in author.
const AnonymousName = "익명"

// ValidCategory reports whether cat is one of Categories.
func ValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// ValidateCategory returns an Invalid error for unknown categories.
func ValidateCategory(cat string) error {
	if !ValidCategory(cat) {
		return Invalid("unknown category: %s", cat)
	}
	return nil
}
