package contributor

type Badge string

const (
	BadgeNewbie Badge = "Newbie"
	BadgeBronze Badge = "Bronze"
	BadgeSilver Badge = "Silver"
	BadgeGold   Badge = "Gold"
)

// ClassifyBadge maps accumulated points to a badge tier. Highest matching
// threshold wins: 100 for Gold, 60 for Silver, 30 for Bronze.
func ClassifyBadge(points int) Badge {
	switch {
	case points >= 100:
		return BadgeGold
	case points >= 60:
		return BadgeSilver
	case points >= 30:
		return BadgeBronze
	default:
		return BadgeNewbie
	}
}
