package loyalty

type Tier string

const (
	TierNone   Tier = ""
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

type Badge struct {
	Tier      Tier   `json:"tier"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
}

// catalog is ordered by ascending threshold.
var catalog = []Badge{
	{Tier: TierBronze, Name: "Bronz Yıkayıcı", Threshold: 3, Icon: "medal-bronze", Color: "#CD7F32"},
	{Tier: TierSilver, Name: "Gümüş Yıkayıcı", Threshold: 5, Icon: "medal-silver", Color: "#C0C0C0"},
	{Tier: TierGold, Name: "Altın Yıkayıcı", Threshold: 10, Icon: "medal-gold", Color: "#FFD700"},
}

func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// TierFor maps a monthly wash count to the highest tier whose threshold it reaches.
func TierFor(monthlyWashCount int) Tier {
	tier := TierNone
	for _, b := range catalog {
		if monthlyWashCount >= b.Threshold {
			tier = b.Tier
		}
	}
	return tier
}

func BadgeFor(t Tier) (Badge, bool) {
	for _, b := range catalog {
		if b.Tier == t {
			return b, true
		}
	}
	return Badge{}, false
}

// NextBadge returns the next tier above the count and how many washes are missing.
func NextBadge(monthlyWashCount int) (Badge, int, bool) {
	for _, b := range catalog {
		if monthlyWashCount < b.Threshold {
			return b, b.Threshold - monthlyWashCount, true
		}
	}
	return Badge{}, 0, false
}
