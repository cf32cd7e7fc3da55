package gamification

// Achievement is a one-time milestone. Unlocking it grants XP once;
// the unlock predicate lives in evaluator.go.
type Achievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XP          int    `json:"xp"`
}

// Achievements is the achievement catalog, in display order.
var Achievements = []Achievement{
	{Key: "first-use", Name: "Primeiros Passos", Description: "Use seu primeiro cupom", Icon: "🎯", XP: 50},
	{Key: "saver", Name: "Economizador", Description: "Economize R$ 100+ com cupons", Icon: "💰", XP: 100},
	{Key: "collector", Name: "Colecionador", Description: "Use 10 cupons diferentes", Icon: "📚", XP: 150},
	{Key: "explorer", Name: "Explorador", Description: "Use cupons em 5 lojas diferentes", Icon: "🧭", XP: 120},
	{Key: "loyal", Name: "Cliente Fiel", Description: "Use 5 cupons na mesma loja", Icon: "❤️", XP: 80},
	{Key: "strategist", Name: "Estrategista", Description: "Use 3 tipos diferentes de cupom", Icon: "🎯", XP: 130},
	{Key: "vip", Name: "Cliente VIP", Description: "Alcance nível Ouro", Icon: "⭐", XP: 200},
	{Key: "legend", Name: "Lenda", Description: "Alcance nível Mestre", Icon: "🏆", XP: 500},
}

// AchievementByKey returns the catalog entry for key.
func AchievementByKey(key string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.Key == key {
			return a, true
		}
	}
	return Achievement{}, false
}
