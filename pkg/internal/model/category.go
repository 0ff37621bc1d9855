package model

// Category 音效分类，来自 <dir>/category.json. 缺少 isShown 视为隐藏.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	IsShown bool   `json:"isShown"`
	// Dir 分类目录，由加载器填写
	Dir string `json:"dir,omitempty"`
}

// Promotion 首页推广条目，来自 catalog.json.
type Promotion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ButtonTitle string `json:"button_title"`
	Link        string `json:"link"`
	IsShown     bool   `json:"isShown"`
}
