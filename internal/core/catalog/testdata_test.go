package catalog

func sampleRecipes() []Recipe {
	return []Recipe{
		{
			ID: "r1", Name: "Tomato Soup", Rating: 4.5, NumRated: 12,
			Course: []string{"Soup"}, Cuisine: []string{"Italian"},
			Keywords: []string{"comfort", "vegetarian"}, Ingredients: []string{"tomatoes", "basil", "cream"},
		},
		{
			ID: "r2", Name: "Crème Brûlée", Rating: 4.9, NumRated: 40,
			Course: []string{"Dessert"}, Cuisine: []string{"French"},
			Keywords: []string{"custard"}, Ingredients: []string{"egg yolks", "sugar", "cream"},
		},
		{
			ID: "r3", Name: "Caprese Salad", Rating: 4.2, NumRated: 8,
			Course: []string{"Appetizer", "Salad"}, Cuisine: []string{"Italian"},
			Keywords: []string{"no-cook"}, Ingredients: []string{"mozzarella", "Tomato", "basil"},
		},
		{
			ID: "r4", Name: "Plain Rice", Rating: 3.0, NumRated: 2,
		},
	}
}

func mustIndex(recipes []Recipe) *Index {
	idx, err := BuildIndex(recipes)
	if err != nil {
		panic(err)
	}
	return idx
}
