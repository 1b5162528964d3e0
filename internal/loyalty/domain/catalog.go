package domain

func intp(n int) *int { return &n }

// Catalog returns the six fixed reward entries. Costs and categories are
// load-bearing for redemption scenarios; do not reorder or reprice.
func Catalog() []RewardCatalogEntry {
	return []RewardCatalogEntry{
		{
			ID:           "1",
			Title:        "Free Basic Wash",
			Description:  "Redeem for a complimentary basic car wash",
			PointsCost:   500,
			Category:     CategoryWash,
			DisplayGlyph: "🚗",
			Available:    true,
		},
		{
			ID:           "2",
			Title:        "Premium Car Fragrance",
			Description:  "High-quality air freshener for your car",
			PointsCost:   200,
			Category:     CategoryProduct,
			DisplayGlyph: "🌸",
			Available:    true,
			Stock:        intp(15),
		},
		{
			ID:           "3",
			Title:        "Tyre Polish Kit",
			Description:  "Professional grade tyre shine and protection",
			PointsCost:   300,
			Category:     CategoryProduct,
			DisplayGlyph: "✨",
			Available:    true,
			Stock:        intp(8),
		},
		{
			ID:           "4",
			Title:        "20% Off Next Wash",
			Description:  "Get 20% discount on your next premium wash",
			PointsCost:   150,
			Category:     CategoryDiscount,
			DisplayGlyph: "🎫",
			Available:    true,
		},
		{
			ID:           "5",
			Title:        "Interior Deep Clean",
			Description:  "Professional interior cleaning service",
			PointsCost:   800,
			Category:     CategoryService,
			DisplayGlyph: "🧽",
			Available:    true,
		},
		{
			ID:           "6",
			Title:        "Wax Protection Treatment",
			Description:  "Premium car wax for long-lasting protection",
			PointsCost:   600,
			Category:     CategoryService,
			DisplayGlyph: "🛡️",
			Available:    true,
		},
	}
}

// CatalogEntry looks up a reward by identifier.
func CatalogEntry(id string) (RewardCatalogEntry, bool) {
	for _, r := range Catalog() {
		if r.ID == id {
			return r, true
		}
	}
	return RewardCatalogEntry{}, false
}
