package fallback

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
)

// DemoMarker 附加在每条降级回复末尾，标记当前处于演示模式。
const DemoMarker = "💡 *当前为演示模式，配置API密钥后可获得更智能的回答*"

// Canned response sets. Exported so tests can assert set membership.
var (
	Greetings = []string{
		"你好！我是你的AI学习助手，很高兴为你服务！",
		"欢迎来到AI学习平台！我可以帮你解答数学问题。",
		"Hi！我是专门为数学学习设计的AI助手，有什么可以帮你的吗？",
	}

	Explanations = []string{
		"让我来详细解释一下这个概念。",
		"这是一个很好的问题！我来为你分析一下。",
		"我理解你的疑问，让我从基础开始讲解。",
		"这个知识点确实需要仔细理解，我来帮你梳理一下。",
	}

	Examples = []string{
		"让我给你举个具体的例子来说明。",
		"通过一个实际例子，你会更容易理解。",
		"我用一个简单的例子来演示这个概念。",
		"举例说明总是最好的学习方法，来看这个例子。",
	}

	Practices = []string{
		"练习是巩固知识的最好方法！",
		"让我们通过一些练习题来加深理解。",
		"我为你准备了一些针对性的练习题。",
		"做题是检验学习效果的好方法，我们开始吧！",
	}

	Encouragements = []string{
		"\n\n有什么不明白的地方随时问我！",
		"\n\n希望这个解释对你有帮助！",
		"\n\n你还想了解什么相关内容吗？",
		"\n\n继续加油，你一定能掌握这个知识点！",
	}
)

// conceptExplanations 内置的知识点讲解片段，按知识点标题索引。
var conceptExplanations = map[string][]string{
	"集合的基本概念": {
		"集合是数学中最基本的概念之一。简单来说，集合就是把一些确定的、不同的对象放在一起形成的整体。",
		"集合有三个重要特性：确定性（元素是否属于集合是明确的）、互异性（集合中的元素各不相同）、无序性（元素的排列顺序不影响集合）。",
		"我们通常用大写字母A、B、C等表示集合，用小写字母a、b、c等表示集合中的元素。如果a是集合A的元素，我们写作a∈A。",
	},
	"集合的表示方法": {
		"集合主要有两种表示方法：列举法和描述法。",
		"列举法：把集合中的元素一一列举出来，写在大括号内。例如：A = {1, 2, 3, 4, 5}",
		"描述法：用集合中元素的共同特征来表示集合。例如：B = {x | x是小于10的正整数}",
	},
	"集合间的关系": {
		"集合之间主要有三种关系：子集、真子集和相等。",
		"如果集合A的每一个元素都是集合B的元素，那么A是B的子集，记作A⊆B。",
		"如果A⊆B，且A≠B，那么A是B的真子集，记作A⊊B。",
	},
}

// Responder synthesizes rule-based tutoring replies when no text provider
// credential is configured. Responses draw from fixed sets; randomness is
// confined to the injected source so tests stay deterministic.
type Responder struct {
	rng *rand.Rand
}

// New creates a responder seeded from seed.
func New(seed int64) *Responder {
	return &Responder{rng: rand.New(rand.NewSource(seed))}
}

// Respond produces the degraded-mode answer for one user message.
// The demo marker is always appended so callers can recognize fallback turns.
func (r *Responder) Respond(message string, kc knowledge.Context) string {
	intent, keywords := Classify(message)

	var b strings.Builder
	b.WriteString(r.pick(baseSet(intent)))

	if kc.Point != nil {
		if intent == IntentExplanation {
			if explanations, ok := conceptExplanations[kc.Point.Title]; ok {
				b.WriteString("\n\n")
				b.WriteString(r.pick(explanations))
			}
		}
		switch kc.Point.Difficulty {
		case knowledge.Advanced:
			b.WriteString("\n\n💡 这是一个高难度知识点，建议你先确保掌握了前置知识再深入学习。")
		case knowledge.Basic:
			b.WriteString("\n\n✨ 这是基础知识点，掌握好它对后续学习很重要！")
		}
	}

	if len(keywords) > 0 {
		b.WriteString(fmt.Sprintf("\n\n我注意到你提到了“%s”，这些都是数学中的重要概念。", strings.Join(keywords, "、")))
	}

	if r.rng.Float64() > 0.6 {
		b.WriteString(r.pick(Encouragements))
	}

	b.WriteString("\n\n")
	b.WriteString(DemoMarker)
	return b.String()
}

// TypingDelay returns the simulated thinking pause before a fallback reply:
// a fixed base plus bounded jitter.
func (r *Responder) TypingDelay() time.Duration {
	return 800*time.Millisecond + time.Duration(r.rng.Intn(1200))*time.Millisecond
}

func baseSet(intent Intent) []string {
	switch intent {
	case IntentGreeting:
		return Greetings
	case IntentExample:
		return Examples
	case IntentPractice:
		return Practices
	default:
		return Explanations
	}
}

func (r *Responder) pick(set []string) string {
	return set[r.rng.Intn(len(set))]
}
