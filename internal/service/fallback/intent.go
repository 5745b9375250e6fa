package fallback

import "strings"

// Intent 用户消息的粗粒度意图分类。
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentExplanation Intent = "explanation"
	IntentExample     Intent = "example"
	IntentPractice    Intent = "practice"
	IntentQuestion    Intent = "question"
	IntentOther       Intent = "other"
)

// rule 有序规则表的一项：命中任一 pattern 即归入该意图。
type rule struct {
	intent   Intent
	patterns []string
}

// 规则按声明顺序求值，先命中者胜。
var intentRules = []rule{
	{IntentGreeting, []string{"你好", "hi", "hello"}},
	{IntentExplanation, []string{"解释", "是什么", "概念"}},
	{IntentExample, []string{"例子", "举例", "示例"}},
	{IntentPractice, []string{"练习", "题目", "做题"}},
	{IntentQuestion, []string{"?", "？", "怎么", "为什么"}},
}

var mathKeywords = []string{"集合", "函数", "数列", "不等式", "三角函数", "指数", "对数"}

// Classify runs the ordered rule table over the message and extracts the
// math keywords it mentions.
func Classify(message string) (Intent, []string) {
	lower := strings.ToLower(message)

	intent := IntentOther
	for _, r := range intentRules {
		if matchesAny(lower, r.patterns) {
			intent = r.intent
			break
		}
	}

	var keywords []string
	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			keywords = append(keywords, kw)
		}
	}

	return intent, keywords
}

func matchesAny(message string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(message, p) {
			return true
		}
	}
	return false
}
