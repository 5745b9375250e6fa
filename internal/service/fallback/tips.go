package fallback

import "github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"

// LearningTips returns the built-in per-difficulty study suggestions used
// when no text provider can generate personalized ones.
func LearningTips(difficulty knowledge.Difficulty) []string {
	switch difficulty {
	case knowledge.Basic:
		return []string{
			"建议多做基础练习题，打好基础",
			"可以通过画图或实例来理解概念",
			"不要急于求成，确保每个基础概念都理解透彻",
		}
	case knowledge.Intermediate:
		return []string{
			"尝试将新知识与已学内容联系起来",
			"多思考概念之间的关系和应用场景",
			"适当增加练习难度，提升解题能力",
		}
	case knowledge.Advanced:
		return []string{
			"需要大量练习来熟练掌握",
			"建议寻找多种解题方法，培养数学思维",
			"可以尝试一些竞赛题目来挑战自己",
		}
	default:
		return []string{"请继续努力学习，遇到问题随时向我提问！"}
	}
}
