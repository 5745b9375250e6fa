package provider

import (
	"fmt"
	"strings"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
)

// excerptLimit caps the concept body embedded in the preamble so the prompt
// cannot grow without bound as catalog content grows.
const excerptLimit = 500

// BuildSystemPreamble produces the provider-agnostic tutoring instruction:
// role statement, a bounded excerpt of the selected concept, and the target
// difficulty so response complexity can be modulated.
func BuildSystemPreamble(kc knowledge.Context) string {
	var b strings.Builder
	b.WriteString(`你是一个专业的AI学习助手，专门帮助学生学习高中数学、物理、化学、生物等学科。

你的特点：
1. 耐心细致，善于用简单易懂的语言解释复杂概念
2. 能够提供具体的例子和练习题
3. 会根据学生的理解程度调整解释的深度
4. 鼓励学生思考，引导学生找到解题思路
5. 回答简洁明了，重点突出

请用中文回答所有问题。`)

	if kc.Point != nil {
		b.WriteString(fmt.Sprintf("\n\n当前学习的知识点：%s\n难度等级：%s\n知识点内容：%s",
			kc.Point.Title, kc.Point.Difficulty, excerpt(kc.Point.Content)))
	}

	if kc.Difficulty != "" {
		b.WriteString(fmt.Sprintf("\n\n请根据学生的水平（%s）调整回答的深度和复杂程度。", kc.Difficulty))
	}

	return b.String()
}

// excerpt truncates on rune boundaries at the hard cap.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit]) + "..."
}
