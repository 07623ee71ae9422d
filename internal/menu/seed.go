package menu

import "time"

// SampleItems is the starter menu loaded when seeding is enabled.
func SampleItems(now time.Time) []Item {
	mk := func(id, name, desc, price, category, image string, prep int, custom ...string) Item {
		return Item{
			ID:             id,
			Name:           name,
			Description:    desc,
			Price:          mustPrice(price),
			Category:       category,
			Image:          image,
			Available:      true,
			Customizations: custom,
			PrepTime:       prep,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	return []Item{
		mk("braai-platter", "Traditional Braai Platter",
			"Flame-grilled mixed meat platter with boerewors, lamb chops, and chicken served with traditional sides",
			"195.00", "Traditional", "https://images.pexels.com/photos/1633525/pexels-photo-1633525.jpeg?auto=compress&cs=tinysrgb&w=400",
			25, "Extra Sauce", "Spicy", "Medium Rare", "Well Done"),
		mk("flame-burger", "Ubuntu Flame Burger",
			"Premium beef patty flame-grilled to perfection with cheese, lettuce, tomato, and our signature sauce",
			"89.50", "Burgers", "https://images.pexels.com/photos/1639557/pexels-photo-1639557.jpeg?auto=compress&cs=tinysrgb&w=400",
			15, "Extra Cheese", "No Pickles", "Extra Sauce", "Bacon"),
		mk("chicken-rice", "Grilled Chicken & Rice",
			"Tender flame-grilled chicken breast served with aromatic basmati rice and seasonal vegetables",
			"125.00", "Grilled", "https://images.pexels.com/photos/2338407/pexels-photo-2338407.jpeg?auto=compress&cs=tinysrgb&w=400",
			20, "Spicy Marinade", "Lemon Herb", "Extra Vegetables"),
		mk("fish-chips", "Flame-Grilled Fish & Chips",
			"Fresh fish grilled over open flame served with crispy chips and tartar sauce",
			"145.00", "Seafood", "https://images.pexels.com/photos/1092730/pexels-photo-1092730.jpeg?auto=compress&cs=tinysrgb&w=400",
			18, "Extra Tartar Sauce", "Lemon Butter", "Grilled Vegetables"),
		mk("veg-sosatie", "Vegetarian Sosatie",
			"Traditional vegetarian kebabs with marinated vegetables and halloumi cheese",
			"95.00", "Vegetarian", "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg?auto=compress&cs=tinysrgb&w=400",
			15, "Extra Halloumi", "Spicy Marinade", "Extra Vegetables"),
		mk("pap-vleis", "Traditional Pap & Vleis",
			"Classic South African dish with creamy pap, flame-grilled meat, and morogo",
			"115.00", "Traditional", "https://images.pexels.com/photos/15832879/pexels-photo-15832879.jpeg?auto=compress&cs=tinysrgb&w=400",
			22, "Extra Gravy", "Spicy Meat", "Extra Morogo"),
	}
}
