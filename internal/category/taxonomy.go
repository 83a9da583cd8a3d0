package category

import "sort"

// Group is one top-level entry in the taxonomy with its subcategories.
type Group struct {
	Name          string
	Subcategories []string
}

// DefaultTaxonomy is the built-in category tree. It is declared once here
// and shared by every consumer; custom user categories are merged in via
// Merged rather than kept as a separate lookup.
var DefaultTaxonomy = []Group{
	{Name: "Income", Subcategories: []string{"Salary", "Interest", "Dividends", "Rental Income", "Refunds"}},
	{Name: "Housing", Subcategories: []string{"Mortgage", "Rent", "Property Tax", "Insurance", "Repairs", "Utilities"}},
	{Name: "Food & Dining", Subcategories: []string{"Groceries", "Restaurants", "Coffee", "Takeaway"}},
	{Name: "Transport", Subcategories: []string{"Fuel", "Public Transport", "Parking", "Rego & Insurance", "Maintenance"}},
	{Name: "Shopping", Subcategories: []string{"Clothing", "Electronics", "Household", "Gifts"}},
	{Name: "Health", Subcategories: []string{"Medical", "Dental", "Pharmacy", "Fitness"}},
	{Name: "Entertainment", Subcategories: []string{"Streaming", "Events", "Hobbies", "Travel"}},
	{Name: "Kids", Subcategories: []string{"Childcare", "School", "Activities"}},
	{Name: "Financial", Subcategories: []string{"Fees", "Interest Charged", "Transfers", "Tax"}},
	{Name: "Business", Subcategories: []string{"Supplies", "Services", "Travel"}},
}

// Merged returns the default taxonomy with custom category strings folded in.
// Each custom entry is a "Group" or "Group > Subcategory" string; unknown
// groups are appended, new subcategories are inserted into their group in
// sorted order. The default tree is never mutated.
func Merged(custom []string) []Group {
	out := make([]Group, len(DefaultTaxonomy))
	index := make(map[string]int, len(DefaultTaxonomy))
	for i, g := range DefaultTaxonomy {
		out[i] = Group{Name: g.Name, Subcategories: append([]string(nil), g.Subcategories...)}
		index[g.Name] = i
	}

	for _, s := range custom {
		if !Valid(s) {
			continue
		}
		group, sub := Parse(s)
		i, ok := index[group]
		if !ok {
			i = len(out)
			out = append(out, Group{Name: group})
			index[group] = i
		}
		if sub == "" || contains(out[i].Subcategories, sub) {
			continue
		}
		out[i].Subcategories = append(out[i].Subcategories, sub)
		sort.Strings(out[i].Subcategories)
	}
	return out
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
