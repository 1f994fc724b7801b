package docquiz

// GenerationTask is one per-type step of a multi-type request
type GenerationTask struct {
	Index   int
	Request GenerationRequest
}

// GenerationPlan is the ordered list of per-type steps. Task order is request order,
// which decides who wins when the merged result overflows QuestionCount.
type GenerationPlan struct {
	Tasks []GenerationTask
	Limit int
	Quota int
}

// NewGenerationPlan splits a multi-type request into one task per listed type.
// Every task asks for ceil(count/len(types)) questions, duplicates included.
func NewGenerationPlan(req MultiTypeGenerationRequest) (*GenerationPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := len(req.QuestionTypes)
	quota := (req.QuestionCount + n - 1) / n

	plan := &GenerationPlan{
		Tasks: make([]GenerationTask, 0, n),
		Limit: req.QuestionCount,
		Quota: quota,
	}
	for i, t := range req.QuestionTypes {
		plan.Tasks = append(plan.Tasks, GenerationTask{
			Index: i,
			Request: GenerationRequest{
				Content:       req.Content,
				Subject:       req.Subject,
				QuestionCount: quota,
				QuestionType:  t,
				Tone:          req.Tone,
				Difficulty:    req.Difficulty,
			},
		})
	}
	return plan, nil
}

// Merge concatenates per-task results in task order and keeps the first Limit questions
func (p *GenerationPlan) Merge(results [][]Question) []Question {
	merged := make([]Question, 0, p.Limit)
	for _, batch := range results {
		for _, q := range batch {
			if len(merged) == p.Limit {
				return merged
			}
			merged = append(merged, q)
		}
	}
	return merged
}
