package knowledge

// Difficulty 知识点难度等级。
type Difficulty string

const (
	Basic        Difficulty = "basic"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Subject 学科，由若干章节构成。
type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Chapter 章节，归属某个学科。
type Chapter struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
}

// Point is one knowledge point inside a chapter. Content holds the full
// teaching text; prompt builders excerpt it rather than sending it whole.
type Point struct {
	ID               string     `json:"id"`
	ChapterID        string     `json:"chapterId"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Difficulty       Difficulty `json:"difficulty"`
	Tags             []string   `json:"tags,omitempty"`
	Prerequisites    []string   `json:"prerequisites,omitempty"`
	EstimatedMinutes int        `json:"estimatedMinutes,omitempty"`
}

// Catalog exposes read-only access to the content catalog.
type Catalog interface {
	SubjectByID(id string) (Subject, bool)
	ChapterByID(id string) (Chapter, bool)
	PointByID(id string) (Point, bool)
	Subjects() []Subject
	PointsBySubject(subjectID string) []Point
	PointsByChapter(chapterID string) []Point
}

// MemoryCatalog implements Catalog with in-memory slices, suitable for the
// static seeded content set.
type MemoryCatalog struct {
	subjects []Subject
	chapters []Chapter
	points   []Point
}

// NewMemoryCatalog returns a MemoryCatalog preloaded with the supplied content.
func NewMemoryCatalog(subjects []Subject, chapters []Chapter, points []Point) *MemoryCatalog {
	return &MemoryCatalog{
		subjects: append([]Subject(nil), subjects...),
		chapters: append([]Chapter(nil), chapters...),
		points:   append([]Point(nil), points...),
	}
}

func (c *MemoryCatalog) SubjectByID(id string) (Subject, bool) {
	for _, s := range c.subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

func (c *MemoryCatalog) ChapterByID(id string) (Chapter, bool) {
	for _, ch := range c.chapters {
		if ch.ID == id {
			return ch, true
		}
	}
	return Chapter{}, false
}

func (c *MemoryCatalog) PointByID(id string) (Point, bool) {
	for _, p := range c.points {
		if p.ID == id {
			return p, true
		}
	}
	return Point{}, false
}

func (c *MemoryCatalog) Subjects() []Subject {
	return append([]Subject(nil), c.subjects...)
}

func (c *MemoryCatalog) PointsBySubject(subjectID string) []Point {
	chapters := make(map[string]bool)
	for _, ch := range c.chapters {
		if ch.SubjectID == subjectID {
			chapters[ch.ID] = true
		}
	}

	var out []Point
	for _, p := range c.points {
		if chapters[p.ChapterID] {
			out = append(out, p)
		}
	}
	return out
}

func (c *MemoryCatalog) PointsByChapter(chapterID string) []Point {
	var out []Point
	for _, p := range c.points {
		if p.ChapterID == chapterID {
			out = append(out, p)
		}
	}
	return out
}
