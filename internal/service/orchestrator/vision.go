package orchestrator

import (
	"fmt"
	"strings"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/provider"
)

// buildAnalysisPrompt merges the student's question with the fixed analysis
// checklist, plus the selected concept when one is active.
func buildAnalysisPrompt(question string, kc knowledge.Context) string {
	var b strings.Builder
	b.WriteString("请分析这张图片中的数学或物理问题。")
	if question != "" {
		b.WriteString("学生的问题是：")
		b.WriteString(question)
	}
	b.WriteString(`

请按以下方面进行分析：
1. 描述图片中的主要内容
2. 识别其中出现的公式或方程
3. 判断涉及的学科和知识点
4. 评估题目的难度等级
5. 给出解题思路和学习建议`)

	if kc.Point != nil {
		b.WriteString(fmt.Sprintf("\n\n学生当前正在学习的知识点是“%s”，请结合这个知识点进行讲解。", kc.Point.Title))
	}
	return b.String()
}

// formatAnalysis flattens a structured vision result into the reply text.
// When the provider returned free text only, that text passes through as is.
func formatAnalysis(out provider.Output) string {
	a := out.Analysis
	if a == nil {
		return out.Content
	}

	var b strings.Builder
	b.WriteString("📷 **图片分析结果**\n\n")
	b.WriteString(a.Description)

	if len(a.Formulas) > 0 {
		b.WriteString("\n\n**识别到的公式：**\n")
		for _, f := range a.Formulas {
			b.WriteString("- " + f + "\n")
		}
	}
	if len(a.Subjects) > 0 {
		b.WriteString("\n**涉及学科：**" + strings.Join(a.Subjects, "、"))
	}
	if a.Difficulty != "" {
		b.WriteString(fmt.Sprintf("\n**难度等级：**%s", a.Difficulty))
	}
	if len(a.Suggestions) > 0 {
		b.WriteString("\n\n**解题建议：**\n")
		for i, s := range a.Suggestions {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
