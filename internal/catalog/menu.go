package catalog

import (
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// Category ids
const (
	Lanches = "lanches"
	Frango  = "frango"
	Acai    = "acai"
	Porcoes = "porcoes"
	Bebidas = "bebidas"
)

// Option group ids
const (
	ExtrasLanche    = "extras-lanche"
	Acompanhamentos = "acompanhamentos"
	AdicionaisAcai  = "adicionais-acai"
	Complementos    = "complementos"
	Coberturas      = "coberturas"
	Frutas          = "frutas"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sides(n int) *int {
	return &n
}

func option(name, p string) models.PricedOption {
	return models.PricedOption{Name: name, Price: price(p)}
}

func freeOptions(names ...string) []models.PricedOption {
	out := make([]models.PricedOption, len(names))
	for i, n := range names {
		out[i] = models.PricedOption{Name: n, Price: decimal.Zero}
	}
	return out
}

func defaultCategories() []models.Category {
	return []models.Category{
		{ID: Lanches, Name: "Lanches", Icon: "🍔"},
		{ID: Frango, Name: "Frango Frito", Icon: "🍗"},
		{ID: Acai, Name: "Açaí", Icon: "🍇"},
		{ID: Porcoes, Name: "Porções", Icon: "🍟"},
		{ID: Bebidas, Name: "Bebidas", Icon: "🥤"},
	}
}

func defaultProducts() []models.Product {
	return []models.Product{
		{ID: "misto-quente", CategoryID: Lanches, Name: "Misto Quente", Price: price("10.00"),
			Ingredients: []string{"Pão de Forma", "Presunto", "Queijo"}},
		{ID: "x-burguer", CategoryID: Lanches, Name: "X-Burguer", Price: price("18.00"),
			Ingredients: []string{"Pão", "Hambúrguer", "Queijo", "Alface", "Tomate", "Maionese"}},
		{ID: "x-salada", CategoryID: Lanches, Name: "X-Salada", Price: price("20.00"),
			Ingredients: []string{"Pão", "Hambúrguer", "Queijo", "Presunto", "Alface", "Tomate", "Milho", "Maionese"}},
		{ID: "x-bacon", CategoryID: Lanches, Name: "X-Bacon", Price: price("23.00"),
			Ingredients: []string{"Pão", "Hambúrguer", "Queijo", "Bacon", "Alface", "Tomate", "Maionese"}},
		{ID: "x-tudo", CategoryID: Lanches, Name: "X-Tudo", Price: price("28.00"),
			Description: "O completo da casa",
			Ingredients: []string{"Pão", "Hambúrguer", "Queijo", "Presunto", "Bacon", "Ovo", "Calabresa", "Alface", "Tomate", "Milho", "Batata Palha", "Maionese"}},

		{ID: "balde-p", CategoryID: Frango, Name: "Balde P (6 pedaços)", Price: price("35.00"), MaxSides: sides(1)},
		{ID: "balde-m", CategoryID: Frango, Name: "Balde M (10 pedaços)", Price: price("55.00"), MaxSides: sides(2)},
		{ID: "balde-g", CategoryID: Frango, Name: "Balde G (16 pedaços)", Price: price("80.00"), MaxSides: sides(3)},
		{ID: "tiras-frango", CategoryID: Frango, Name: "Tiras de Frango (300g)", Price: price("25.00"), MaxSides: sides(1)},

		{ID: "acai-300", CategoryID: Acai, Name: "Açaí 300ml", Price: price("14.00")},
		{ID: "acai-500", CategoryID: Acai, Name: "Açaí 500ml", Price: price("20.00")},
		{ID: "acai-700", CategoryID: Acai, Name: "Açaí 700ml", Price: price("26.00")},

		{ID: "batata-frita", CategoryID: Porcoes, Name: "Batata Frita", Price: price("15.00")},
		{ID: "batata-cheddar", CategoryID: Porcoes, Name: "Batata com Cheddar e Bacon", Price: price("25.00")},
		{ID: "mandioca-frita", CategoryID: Porcoes, Name: "Mandioca Frita", Price: price("18.00")},

		{ID: "coca-lata", CategoryID: Bebidas, Name: "Coca-Cola Lata", Price: price("6.00")},
		{ID: "guarana-2l", CategoryID: Bebidas, Name: "Guaraná 2L", Price: price("12.00")},
		{ID: "suco-laranja", CategoryID: Bebidas, Name: "Suco de Laranja", Price: price("8.00")},
		{ID: "agua", CategoryID: Bebidas, Name: "Água Mineral", Price: price("3.50")},
	}
}

func defaultPolicies() map[string]Policy {
	return map[string]Policy{
		Lanches: {
			RemovableIngredients: true,
			PaidExtras: &OptionGroup{ID: ExtrasLanche, Name: "Adicionais", Options: []models.PricedOption{
				option("Bacon", "4.00"),
				option("Ovo", "2.00"),
				option("Queijo Extra", "3.00"),
				option("Hambúrguer Extra", "6.00"),
				option("Cheddar", "3.50"),
				option("Catupiry", "3.50"),
			}},
		},
		Frango: {
			FreeSides: &OptionGroup{ID: Acompanhamentos, Name: "Acompanhamentos",
				Options: freeOptions("Batata Frita", "Farofa", "Vinagrete", "Arroz", "Maionese Caseira", "Molho Barbecue")},
		},
		Acai: {
			PaidExtras: &OptionGroup{ID: AdicionaisAcai, Name: "Adicionais", Options: []models.PricedOption{
				option("Nutella", "5.00"),
				option("Creme de Ninho", "4.00"),
				option("Bis", "3.00"),
				option("Ovomaltine", "3.00"),
			}},
			Packaging: []models.Packaging{"Copo 300ml", "Copo 500ml", "Marmita 500ml"},
			Complements: []OptionGroup{
				{ID: Complementos, Name: "Complementos",
					Options: freeOptions("Granola", "Leite em Pó", "Paçoca", "Amendoim", "Sucrilhos")},
				{ID: Coberturas, Name: "Coberturas",
					Options: freeOptions("Leite Condensado", "Calda de Chocolate", "Calda de Morango", "Mel")},
				{ID: Frutas, Name: "Frutas",
					Options: freeOptions("Banana", "Morango", "Kiwi", "Manga")},
			},
		},
	}
}
