package core

// Category is a display category offered when recording a transaction.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Class string `json:"class"`
}

// DefaultIcon is shown for records that carry no icon.
const DefaultIcon = "💰"

var expenseCategories = []Category{
	{ID: "meal", Name: "餐饮", Icon: "🍱", Class: "meal"},
	{ID: "shopping", Name: "购物", Icon: "🛍️", Class: "shopping"},
	{ID: "daily", Name: "日用", Icon: "🧴", Class: "daily"},
	{ID: "traffic", Name: "交通", Icon: "🚇", Class: "traffic"},
	{ID: "sport", Name: "运动", Icon: "🏃‍♂️", Class: "sport"},
	{ID: "play", Name: "娱乐", Icon: "🎮", Class: "play"},
	{ID: "comm", Name: "通讯", Icon: "📞", Class: "comm"},
	{ID: "cloth", Name: "服饰", Icon: "👕", Class: "cloth"},
	{ID: "house", Name: "住房", Icon: "🏠", Class: "house"},
	{ID: "travel", Name: "旅行", Icon: "✈️", Class: "travel"},
	{ID: "digital", Name: "数码", Icon: "📱", Class: "digital"},
	{ID: "gift", Name: "礼金", Icon: "🧧", Class: "gift"},
	{ID: "pet", Name: "宠物", Icon: "🐱", Class: "pet"},
	{ID: "office", Name: "办公", Icon: "💼", Class: "office"},
	{ID: "other", Name: "其他", Icon: "🔧", Class: "other"},
}

var incomeCategories = []Category{
	{ID: "salary", Name: "工资", Icon: "💰", Class: "salary"},
	{ID: "bonus", Name: "奖金", Icon: "🧧", Class: "gift"},
	{ID: "investment", Name: "理财", Icon: "📈", Class: "traffic"},
	{ID: "parttime", Name: "兼职", Icon: "🔨", Class: "daily"},
	{ID: "gift_in", Name: "礼金", Icon: "🎁", Class: "play"},
	{ID: "other_in", Name: "其他", Icon: "🔧", Class: "other"},
}

// DefaultCategories returns a copy of the built-in catalog for kind.
func DefaultCategories(kind Kind) []Category {
	src := expenseCategories
	if kind == Income {
		src = incomeCategories
	}
	return append([]Category(nil), src...)
}

// FindCategory looks up a built-in category by id.
func FindCategory(kind Kind, id string) (Category, bool) {
	for _, c := range DefaultCategories(kind) {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// OrderCategories applies a user's custom order. Only ids present in
// order are returned, in that order; unknown and repeated ids are skipped. An empty
// order keeps the defaults.
func OrderCategories(defaults []Category, order []string) []Category {
	if len(order) == 0 {
		return defaults
	}
	byID := make(map[string]Category, len(defaults))
	for _, c := range defaults {
		byID[c.ID] = c
	}
	out := make([]Category, 0, len(order))
	for _, id := range order {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out
}
