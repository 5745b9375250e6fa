package knowledge

// SeedSubjects 默认学科列表，来自产品初版内容集。
func SeedSubjects() []Subject {
	return []Subject{
		{
			ID:          "mathematics",
			Name:        "数学",
			Description: "从基础代数到高等数学，构建完整的数学知识体系。",
			Icon:        "📐",
		},
		{
			ID:          "physics",
			Name:        "物理",
			Description: "探索自然界的基本规律，从力学到电磁学的完整知识图谱。",
			Icon:        "⚛️",
		},
	}
}

// SeedChapters 默认章节列表。
func SeedChapters() []Chapter {
	return []Chapter{
		{ID: "math-required-1-sets", SubjectID: "mathematics", Name: "必修一：集合与常用逻辑用语", Order: 1},
		{ID: "math-required-1-functions", SubjectID: "mathematics", Name: "必修一：函数概念与性质", Order: 2},
		{ID: "physics-required-1-motion", SubjectID: "physics", Name: "必修一：运动的描述", Order: 1},
	}
}

// SeedPoints 默认知识点列表。
func SeedPoints() []Point {
	return []Point{
		{
			ID:        "set-basic-concept",
			ChapterID: "math-required-1-sets",
			Title:     "集合的基本概念",
			Content: `集合是数学中最基本的概念之一。集合是由确定的、互不相同的对象组成的整体。

核心要点：
1. 确定性：集合中的元素必须是确定的，对于任意一个对象，要么属于这个集合，要么不属于这个集合。
2. 互异性：集合中的元素必须是互不相同的，相同的对象在一个集合中只能出现一次。
3. 无序性：集合中元素的排列顺序不影响集合本身。

表示方法：列举法 {1, 2, 3, 4, 5}、描述法 {x | x是小于10的正整数}、图示法（韦恩图）。

常用符号：∈ 属于、∉ 不属于、⊆ 包含于、∩ 交集、∪ 并集。`,
			Difficulty:       Basic,
			Tags:             []string{"集合", "基础概念", "数学符号"},
			EstimatedMinutes: 30,
		},
		{
			ID:        "set-representation",
			ChapterID: "math-required-1-sets",
			Title:     "集合的表示方法",
			Content: `集合主要有两种表示方法：列举法和描述法。

列举法：把集合中的元素一一列举出来，写在大括号内。例如 A = {1, 2, 3, 4, 5}。
描述法：用集合中元素的共同特征来表示集合。例如 B = {x | x是小于10的正整数}。`,
			Difficulty:       Basic,
			Tags:             []string{"集合", "列举法", "描述法"},
			Prerequisites:    []string{"set-basic-concept"},
			EstimatedMinutes: 25,
		},
		{
			ID:        "set-relations",
			ChapterID: "math-required-1-sets",
			Title:     "集合间的关系",
			Content: `集合之间主要有三种关系：子集、真子集和相等。

如果集合A的每一个元素都是集合B的元素，那么A是B的子集，记作 A⊆B。
如果 A⊆B 且 A≠B，那么A是B的真子集，记作 A⊊B。
如果 A⊆B 且 B⊆A，那么 A=B。`,
			Difficulty:       Intermediate,
			Tags:             []string{"集合", "子集", "真子集"},
			Prerequisites:    []string{"set-basic-concept", "set-representation"},
			EstimatedMinutes: 35,
		},
		{
			ID:        "function-concept",
			ChapterID: "math-required-1-functions",
			Title:     "函数的概念",
			Content: `设A、B是非空的数集，如果按照某种确定的对应关系f，使对于集合A中的任意一个数x，
在集合B中都有唯一确定的数f(x)和它对应，那么就称 f: A→B 为从集合A到集合B的一个函数。

函数的三要素：定义域、对应关系、值域。`,
			Difficulty:       Intermediate,
			Tags:             []string{"函数", "定义域", "值域"},
			Prerequisites:    []string{"set-basic-concept"},
			EstimatedMinutes: 40,
		},
		{
			ID:        "uniform-acceleration",
			ChapterID: "physics-required-1-motion",
			Title:     "匀变速直线运动",
			Content: `物体沿一条直线运动，且加速度保持不变，这种运动叫做匀变速直线运动。

基本公式：
速度公式 v = v₀ + at
位移公式 x = v₀t + ½at²
速度位移关系 v² − v₀² = 2ax`,
			Difficulty:       Advanced,
			Tags:             []string{"运动学", "加速度", "位移"},
			EstimatedMinutes: 45,
		},
	}
}

// SeedCatalog 返回预置内容的只读目录。
func SeedCatalog() *MemoryCatalog {
	return NewMemoryCatalog(SeedSubjects(), SeedChapters(), SeedPoints())
}
