package gamification

// Level is one tier of the reward ladder. Reaching CouponThreshold
// cumulative coupon uses grants CashbackPercent on every purchase.
type Level struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Icon            string  `json:"icon"`
	CouponThreshold int     `json:"coupon_threshold"`
	CashbackPercent float64 `json:"cashback_percent"`
	Color           string  `json:"color"`
}

// Levels is the level table, ordered by ID with strictly increasing
// thresholds. The first level has threshold 0 so every user qualifies.
var Levels = []Level{
	{ID: 1, Name: "Iniciante", Icon: "🥉", CouponThreshold: 0, CashbackPercent: 1, Color: "#CD7F32"},
	{ID: 2, Name: "Bronze", Icon: "🥉", CouponThreshold: 5, CashbackPercent: 2, Color: "#CD7F32"},
	{ID: 3, Name: "Prata", Icon: "🥈", CouponThreshold: 10, CashbackPercent: 3, Color: "#C0C0C0"},
	{ID: 4, Name: "Ouro", Icon: "🥇", CouponThreshold: 20, CashbackPercent: 5, Color: "#FFD700"},
	{ID: 5, Name: "Diamante", Icon: "💎", CouponThreshold: 35, CashbackPercent: 8, Color: "#B9F2FF"},
	{ID: 6, Name: "Mestre", Icon: "👑", CouponThreshold: 50, CashbackPercent: 10, Color: "#FF69B4"},
}

// SavingsRate is the fraction of a coupon's value credited as savings.
const SavingsRate = 0.10

// LevelByID returns the level with the given id, or the lowest level
// when the id is unknown.
func LevelByID(id int) Level {
	for _, lvl := range Levels {
		if lvl.ID == id {
			return lvl
		}
	}
	return Levels[0]
}
