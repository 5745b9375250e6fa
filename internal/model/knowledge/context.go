package knowledge

import "time"

// Progress 学习进度聚合，随上下文快照附带，当前不参与提示词构造。
type Progress struct {
	CompletedPoints []string  `json:"completedPoints,omitempty"`
	TotalPoints     int       `json:"totalPoints"`
	Level           int       `json:"level"`
	StreakDays      int       `json:"streakDays"`
	LastStudyDate   time.Time `json:"lastStudyDate,omitempty"`
}

// Context is a derived snapshot of the learner's current selection.
// It is rebuilt whenever the selection changes and attached to turns at
// send time; historical turns keep the snapshot they were sent with.
type Context struct {
	Subject       *Subject   `json:"subject,omitempty"`
	Chapter       *Chapter   `json:"chapter,omitempty"`
	Point         *Point     `json:"point,omitempty"`
	RelatedPoints []Point    `json:"relatedPoints,omitempty"`
	Progress      Progress   `json:"progress"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
}

// ConceptTitle returns the selected point's title, empty when nothing is
// selected. Callers never need a nil check.
func (c Context) ConceptTitle() string {
	if c.Point == nil {
		return ""
	}
	return c.Point.Title
}

// BuildContext assembles a Context for the given point identifier.
// An identifier that does not resolve in the catalog yields a context with
// empty concept fields rather than an error; same identifier and catalog
// always produce the same context.
func BuildContext(catalog Catalog, pointID string) Context {
	ctx := Context{Progress: Progress{Level: 1}}
	if pointID == "" {
		return ctx
	}

	point, ok := catalog.PointByID(pointID)
	if !ok {
		return ctx
	}
	ctx.Point = &point
	ctx.Difficulty = point.Difficulty

	if chapter, ok := catalog.ChapterByID(point.ChapterID); ok {
		ctx.Chapter = &chapter
		if subject, ok := catalog.SubjectByID(chapter.SubjectID); ok {
			ctx.Subject = &subject
		}
	}

	ctx.RelatedPoints = relatedPoints(catalog, point)
	return ctx
}

// relatedPoints collects prerequisite neighbours in both directions:
// points the selection depends on, and points that depend on it.
func relatedPoints(catalog Catalog, point Point) []Point {
	var related []Point
	seen := map[string]bool{point.ID: true}

	for _, id := range point.Prerequisites {
		if p, ok := catalog.PointByID(id); ok && !seen[p.ID] {
			related = append(related, p)
			seen[p.ID] = true
		}
	}

	if chapter, ok := catalog.ChapterByID(point.ChapterID); ok {
		for _, p := range catalog.PointsBySubject(chapter.SubjectID) {
			if seen[p.ID] {
				continue
			}
			for _, id := range p.Prerequisites {
				if id == point.ID {
					related = append(related, p)
					seen[p.ID] = true
					break
				}
			}
		}
	}

	return related
}
