package fallback

import (
	"strings"
	"testing"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
)

func TestClassifyIntents(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"你好", IntentGreeting},
		{"Hello there", IntentGreeting},
		{"请解释集合的概念", IntentExplanation},
		{"能举例说明吗", IntentExample},
		{"给我出几道练习题", IntentPractice},
		{"为什么会这样", IntentQuestion},
		{"嗯", IntentOther},
	}
	for _, tc := range cases {
		if got, _ := Classify(tc.message); got != tc.want {
			t.Fatalf("%q: got %s want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassifyOrderedRules(t *testing.T) {
	// Greeting outranks question even when both patterns match.
	if got, _ := Classify("你好，为什么集合有互异性？"); got != IntentGreeting {
		t.Fatalf("ordered rules must prefer greeting, got %s", got)
	}
}

func TestClassifyExtractsKeywords(t *testing.T) {
	_, keywords := Classify("集合和函数有什么关系")
	if len(keywords) != 2 || keywords[0] != "集合" || keywords[1] != "函数" {
		t.Fatalf("unexpected keywords: %v", keywords)
	}
}

func TestRespondGreetingDrawsFromFixedSet(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		resp := New(seed).Respond("你好", knowledge.Context{})

		found := false
		for _, g := range Greetings {
			if strings.HasPrefix(resp, g) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("seed %d: greeting response not drawn from the fixed set: %q", seed, resp)
		}
		if !strings.Contains(resp, DemoMarker) {
			t.Fatalf("seed %d: missing demo marker", seed)
		}
	}
}

func TestRespondDeterministicPerSeed(t *testing.T) {
	first := New(42).Respond("请解释集合的概念", knowledge.Context{})
	second := New(42).Respond("请解释集合的概念", knowledge.Context{})
	if first != second {
		t.Fatal("same seed must produce the same response")
	}
}

func TestRespondIncludesConceptExplanation(t *testing.T) {
	point := knowledge.Point{Title: "集合的基本概念", Difficulty: knowledge.Basic}
	kc := knowledge.Context{Point: &point, Difficulty: knowledge.Basic}

	resp := New(1).Respond("请解释一下", kc)

	found := false
	for _, e := range conceptExplanations["集合的基本概念"] {
		if strings.Contains(resp, e) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected a concept explanation in: %q", resp)
	}
	if !strings.Contains(resp, "✨ 这是基础知识点") {
		t.Fatal("expected the basic-difficulty footnote")
	}
}

func TestRespondAdvancedFootnote(t *testing.T) {
	point := knowledge.Point{Title: "匀变速直线运动", Difficulty: knowledge.Advanced}
	kc := knowledge.Context{Point: &point, Difficulty: knowledge.Advanced}

	resp := New(3).Respond("这是什么", kc)
	if !strings.Contains(resp, "高难度知识点") {
		t.Fatal("expected the advanced-difficulty footnote")
	}
}

func TestTypingDelayBounded(t *testing.T) {
	r := New(7)
	for i := 0; i < 100; i++ {
		d := r.TypingDelay()
		if d < 800e6 || d >= 2000e6 {
			t.Fatalf("typing delay out of bounds: %v", d)
		}
	}
}

func TestLearningTipsPerDifficulty(t *testing.T) {
	if tips := LearningTips(knowledge.Basic); len(tips) != 3 {
		t.Fatalf("expected 3 basic tips, got %d", len(tips))
	}
	if tips := LearningTips(knowledge.Difficulty("bogus")); len(tips) != 1 {
		t.Fatalf("expected fallback tip for unknown difficulty, got %d", len(tips))
	}
}
