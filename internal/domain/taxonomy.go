package domain

// Subcategory is one leaf of the static taxonomy.
type Subcategory struct {
	ID   string
	Name string
}

// Category is one top-level branch of the static taxonomy. It owns an
// ordered list of subcategories. The taxonomy is read-only at runtime;
// posts reference entries by id.
type Category struct {
	ID            string
	Name          string
	Subcategories []Subcategory
}

// Categories is the full wiki taxonomy in display order.
var Categories = []Category{
	{
		ID:   "regions",
		Name: "지역 정보",
		Subcategories: []Subcategory{
			{ID: "auckland", Name: "오클랜드"},
			{ID: "wellington", Name: "웰링턴"},
			{ID: "christchurch", Name: "크라이스트처치"},
			{ID: "queenstown", Name: "퀸스타운"},
			{ID: "rotorua-tauranga", Name: "로토루아 & 타우랑가"},
			{ID: "taupo", Name: "타우포"},
			{ID: "napier-hastings", Name: "네이피어 & 헤이스팅스"},
			{ID: "marlborough-blenheim", Name: "말버러 & 블레넘"},
			{ID: "palmerston-north", Name: "파머스턴 노스"},
			{ID: "nelson", Name: "넬슨"},
		},
	},
	{
		ID:   "living",
		Name: "생활 정보",
		Subcategories: []Subcategory{
			{ID: "usedcar", Name: "중고차"},
			{ID: "tax", Name: "세금/IRD"},
			{ID: "banking", Name: "은행"},
			{ID: "accommodation", Name: "숙소"},
			{ID: "transportation", Name: "교통"},
			{ID: "visa", Name: "비자"},
			{ID: "phone", Name: "휴대폰"},
			{ID: "shopping", Name: "쇼핑"},
			{ID: "healthcare", Name: "의료"},
			{ID: "insurance", Name: "보험"},
			{ID: "travel-leisure", Name: "여행/여가"},
		},
	},
	{
		ID:   "farm-factory",
		Name: "시즌잡(농장/공장)",
		Subcategories: []Subcategory{
			{ID: "kiwi", Name: "키위"},
			{ID: "apple", Name: "사과"},
			{ID: "blueberry", Name: "블루베리"},
			{ID: "cherry", Name: "체리"},
			{ID: "nectarine-apricot", Name: "천도복숭아/살구"},
			{ID: "grape-vineyard", Name: "포도/빈야드"},
			{ID: "mussel", Name: "홍합"},
			{ID: "fish", Name: "생선"},
			{ID: "frozen-vegetable", Name: "냉동야채"},
			{ID: "meat-factory", Name: "고기공장"},
			{ID: "ham-bacon", Name: "햄/베이컨"},
		},
	},
	{
		ID:   "city-job",
		Name: "시티잡",
		Subcategories: []Subcategory{
			{ID: "cafe", Name: "카페"},
			{ID: "restaurant", Name: "식당"},
			{ID: "mart-shop", Name: "마트/상점"},
		},
	},
	{
		ID:   "before-entering",
		Name: "입국 전",
		Subcategories: []Subcategory{
			{ID: "luggage", Name: "짐싸기"},
			{ID: "flight", Name: "항공편"},
			{ID: "tips", Name: "꿀팁"},
		},
	},
}

// LookupCategory returns the category with the given id.
func LookupCategory(id string) (*Category, bool) {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i], true
		}
	}
	return nil, false
}

// LookupSubcategory returns the category and subcategory for the given
// id pair. The subcategory must belong to the named category.
func LookupSubcategory(categoryID, subcategoryID string) (*Category, *Subcategory, bool) {
	c, ok := LookupCategory(categoryID)
	if !ok {
		return nil, nil, false
	}
	for i := range c.Subcategories {
		if c.Subcategories[i].ID == subcategoryID {
			return c, &c.Subcategories[i], true
		}
	}
	return c, nil, false
}
