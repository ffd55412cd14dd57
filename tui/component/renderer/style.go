package renderer

// Icons 图标配置
type Icons struct {
	File    string
	Answer  string
	Clock   string
	Success string
	Error   string
}

// DefaultIcons 返回默认图标
func DefaultIcons() *Icons {
	return &Icons{
		File:    "📄",
		Answer:  "💬",
		Clock:   "⏱",
		Success: "✅",
		Error:   "❌",
	}
}
