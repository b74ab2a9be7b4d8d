package resumes

// Preview flattens a resume's content into the fields the editor renders.
// A key present in content always wins, even when its value is null.
type Preview struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Template       string         `json:"template"`
	Status         Status         `json:"status"`
	Score          int            `json:"score"`
	Content        map[string]any `json:"content"`
	PersonalInfo   any            `json:"personalInfo"`
	Summary        any            `json:"summary"`
	Experience     any            `json:"experience"`
	Education      any            `json:"education"`
	Skills         any            `json:"skills"`
	Projects       any            `json:"projects"`
	Certifications any            `json:"certifications"`
	Languages      any            `json:"languages"`
	Hobbies        any            `json:"hobbies"`
	Volunteering   any            `json:"volunteering"`
	ResumeStyle    any            `json:"resumeStyle"`
	AIAnalysis     *AIAnalysis    `json:"ai_analysis,omitempty"`
}

func BuildPreview(r Resume) Preview {
	content := r.Content
	if content == nil {
		content = map[string]any{}
	}
	return Preview{
		ID:             r.ID,
		Title:          r.Title,
		Template:       r.Template,
		Status:         r.Status,
		Score:          r.Score,
		Content:        content,
		PersonalInfo:   lookup(content, map[string]any{}, "personalInfo"),
		Summary:        lookup(content, "", "summary"),
		Experience:     lookup(content, []any{}, "experiences", "experience"),
		Education:      lookup(content, []any{}, "educations", "education"),
		Skills:         lookup(content, "", "skills"),
		Projects:       lookup(content, []any{}, "projects"),
		Certifications: lookup(content, []any{}, "certifications"),
		Languages:      lookup(content, "", "languages"),
		Hobbies:        lookup(content, "", "hobbies"),
		Volunteering:   lookup(content, "", "volunteering"),
		ResumeStyle:    lookup(content, DefaultTemplate, "resumeStyle"),
	}
}

// lookup returns the value of the first key present, else def.
func lookup(content map[string]any, def any, keys ...string) any {
	for _, key := range keys {
		if v, ok := content[key]; ok {
			return v
		}
	}
	return def
}
