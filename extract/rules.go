package extract

import "github.com/poiesic/lostfound/core"

// Rule maps a set of keywords to one entity value.
// Rules of the same kind are tried in order; the first rule with any
// matching keyword decides the value.
type Rule struct {
	Kind     core.EntityKind
	Value    string
	Keywords []string
}

// DefaultBrandRules lists recognized brands. Product names imply their
// manufacturer.
var DefaultBrandRules = []Rule{
	{core.EntityBrand, "apple", []string{"apple", "iphone", "ipad", "macbook", "imac", "airpod", "airpods"}},
	{core.EntityBrand, "samsung", []string{"samsung", "galaxy"}},
	{core.EntityBrand, "sony", []string{"sony"}},
	{core.EntityBrand, "nokia", []string{"nokia"}},
	{core.EntityBrand, "oppo", []string{"oppo"}},
	{core.EntityBrand, "vivo", []string{"vivo"}},
	{core.EntityBrand, "xiaomi", []string{"xiaomi", "redmi"}},
	{core.EntityBrand, "realme", []string{"realme"}},
	{core.EntityBrand, "dell", []string{"dell"}},
	{core.EntityBrand, "hp", []string{"hp"}},
	{core.EntityBrand, "lenovo", []string{"lenovo", "thinkpad"}},
	{core.EntityBrand, "asus", []string{"asus"}},
	{core.EntityBrand, "acer", []string{"acer"}},
	{core.EntityBrand, "huawei", []string{"huawei"}},
}

// DefaultColorRules lists recognized colors.
var DefaultColorRules = []Rule{
	{core.EntityColor, "black", []string{"black"}},
	{core.EntityColor, "white", []string{"white"}},
	{core.EntityColor, "red", []string{"red"}},
	{core.EntityColor, "blue", []string{"blue"}},
	{core.EntityColor, "green", []string{"green"}},
	{core.EntityColor, "yellow", []string{"yellow"}},
	{core.EntityColor, "purple", []string{"purple"}},
	{core.EntityColor, "pink", []string{"pink"}},
	{core.EntityColor, "brown", []string{"brown"}},
	{core.EntityColor, "grey", []string{"grey"}},
	{core.EntityColor, "gray", []string{"gray"}},
	{core.EntityColor, "silver", []string{"silver"}},
	{core.EntityColor, "gold", []string{"gold"}},
}

// DefaultItemTypeRules lists recognized item types.
//
// Accessories come before the devices they attach to, so "iphone charger"
// is a charger and "apple watch" is a watch.
var DefaultItemTypeRules = []Rule{
	{core.EntityItemType, "charger", []string{"charger", "adapter", "power bank"}},
	{core.EntityItemType, "headphone", []string{"headphone", "headphones", "earphone", "earphones", "earbuds", "airpod", "airpods"}},
	{core.EntityItemType, "watch", []string{"watch", "smartwatch", "apple watch"}},
	{core.EntityItemType, "phone", []string{"phone", "mobile", "smartphone", "iphone", "android"}},
	{core.EntityItemType, "laptop", []string{"laptop", "notebook", "macbook", "computer"}},
	{core.EntityItemType, "wallet", []string{"wallet", "purse", "money", "card holder"}},
	{core.EntityItemType, "keys", []string{"key", "keys", "keychain"}},
	{core.EntityItemType, "id", []string{"id", "card", "identity", "license", "passport"}},
	{core.EntityItemType, "bag", []string{"bag", "backpack", "handbag", "luggage", "suitcase"}},
	{core.EntityItemType, "book", []string{"book", "textbook"}},
}

// DefaultRules returns the brand, color and item type tables.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(DefaultBrandRules)+len(DefaultColorRules)+len(DefaultItemTypeRules))
	rules = append(rules, DefaultBrandRules...)
	rules = append(rules, DefaultColorRules...)
	rules = append(rules, DefaultItemTypeRules...)
	return rules
}
