package mood

// Tag 表示固定词表中的一个情绪关联标签
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Emoji 表示一个可选的心情表情及其情绪分值
type Emoji struct {
	Glyph string  `json:"emoji"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Tags 是预定义的情绪标签词表，打卡只允许携带这里列出的标签 ID
var Tags = []Tag{
	{ID: "work", Label: "#工作", Emoji: "💼"},
	{ID: "relationship", Label: "#感情", Emoji: "❤️"},
	{ID: "health", Label: "#健康", Emoji: "🏥"},
	{ID: "sleep", Label: "#睡眠", Emoji: "😴"},
	{ID: "exercise", Label: "#运动", Emoji: "🏃"},
	{ID: "social", Label: "#社交", Emoji: "👥"},
	{ID: "stress", Label: "#压力", Emoji: "😰"},
	{ID: "success", Label: "#成就", Emoji: "🏆"},
	{ID: "family", Label: "#家庭", Emoji: "👨‍👩‍👧"},
	{ID: "money", Label: "#金钱", Emoji: "💰"},
	{ID: "creative", Label: "#创作", Emoji: "🎨"},
	{ID: "nature", Label: "#自然", Emoji: "🌳"},
}

// Emojis 是可选的心情表情集合，分值固定在 [0,1] 区间，1 表示心情最好
var Emojis = []Emoji{
	{Glyph: "🤩", Label: "超棒", Score: 1.0},
	{Glyph: "😊", Label: "不错", Score: 0.8},
	{Glyph: "🙂", Label: "还行", Score: 0.6},
	{Glyph: "😐", Label: "平淡", Score: 0.5},
	{Glyph: "😕", Label: "一般", Score: 0.4},
	{Glyph: "😤", Label: "烦躁", Score: 0.3},
	{Glyph: "😢", Label: "难过", Score: 0.2},
	{Glyph: "😰", Label: "焦虑", Score: 0.2},
}

var tagIndex = func() map[string]Tag {
	index := make(map[string]Tag, len(Tags))
	for _, tag := range Tags {
		index[tag.ID] = tag
	}
	return index
}()

var emojiIndex = func() map[string]Emoji {
	index := make(map[string]Emoji, len(Emojis))
	for _, e := range Emojis {
		index[e.Glyph] = e
	}
	return index
}()

// ValidTagID 判断标签 ID 是否属于固定词表
func ValidTagID(id string) bool {
	_, ok := tagIndex[id]
	return ok
}

// ValidEmoji 判断表情是否属于可选集合
func ValidEmoji(glyph string) bool {
	_, ok := emojiIndex[glyph]
	return ok
}

// ValidScore 判断情绪分值是否落在 [0,1] 区间
func ValidScore(score float64) bool {
	return score >= 0 && score <= 1
}

// NormalizeTags 去除重复与空白标签，保留首次出现顺序；遇到词表外的标签返回 false。
func NormalizeTags(ids []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}
		if !ValidTagID(id) {
			return nil, false
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result, true
}
