package classify

import "github.com/poiesic/lostfound/core"

// CategoryRule lists the keywords that vote for a category.
type CategoryRule struct {
	Category core.Category
	Keywords []string
}

// PhoneKeywords turn a charger into a phone charger.
var PhoneKeywords = []string{
	"phone", "mobile", "smartphone", "iphone", "android",
	"samsung", "xiaomi", "oppo", "vivo", "realme", "handset",
}

// DefaultRules is the keyword-overlap table, in tie-break order.
var DefaultRules = []CategoryRule{
	{core.CategoryPhone, PhoneKeywords},
	{core.CategoryCharger, []string{"charger", "adapter", "power bank", "charging", "usb-c", "lightning", "cable"}},
	{core.CategoryLaptop, []string{"laptop", "notebook", "macbook", "computer", "pc", "chromebook", "ultrabook"}},
	{core.CategoryWallet, []string{"wallet", "purse", "money", "cash", "card holder", "billfold"}},
	{core.CategoryKeys, []string{"key", "keys", "keychain", "car key", "home key", "room key", "lock key"}},
	{core.CategoryID, []string{"id", "card", "identity card", "driver license", "passport", "student card", "employee id"}},
	{core.CategoryBag, []string{"bag", "backpack", "handbag", "luggage", "suitcase", "tote", "duffel"}},
	{core.CategoryBook, []string{"book", "notebook", "textbook", "novel", "diary", "journal", "magazine"}},
	{core.CategoryHeadphone, []string{"headphone", "earphone", "earbuds", "airpod", "earpods", "headset"}},
	{core.CategoryWatch, []string{"watch", "smartwatch", "wristwatch", "apple watch", "timepiece"}},
	{core.CategoryClothing, []string{"jacket", "hoodie", "shirt", "pants", "dress", "scarf", "hat", "cap", "glasses", "sweater"}},
	{core.CategoryJewelry, []string{"ring", "necklace", "bracelet", "earring", "chain", "pendant"}},
	{core.CategoryElectronics, []string{"tablet", "ipad", "kindle", "camera", "speaker", "power bank"}},
	{core.CategoryStationery, []string{"pen", "pencil", "marker", "highlighter", "notepad", "folder"}},
}
