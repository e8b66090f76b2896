package tasks

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hiresense/hiresense/internal/extract"
)

// SkillSet is the merged result of the two skill prompts. Entries are trimmed
// and deduplicated; order follows model output order.
type SkillSet struct {
	Tech []string `json:"tech_skills"`
	Soft []string `json:"soft_skills"`
}

// ExtractSkills runs the technical-skill prompt and the soft-skill prompt
// against the same document. The prompts are independent and run
// concurrently, but the result is all-or-nothing: if either call fails, the
// whole task fails and no partial skill set is returned. Empty lists are a
// valid outcome.
func (r *Runner) ExtractSkills(ctx context.Context, document string) (*SkillSet, error) {
	var techRaw, softRaw string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		techRaw, err = r.gateway.Generate(ctx, r.models.Extraction, buildDocumentPrompt(techSkillsPrompt, document))
		return err
	})
	g.Go(func() error {
		var err error
		softRaw, err = r.gateway.Generate(ctx, r.models.Extraction, buildDocumentPrompt(softSkillsPrompt, document))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extracting skills: %w", err)
	}

	return &SkillSet{
		Tech: dedupe(extract.CommaList(techRaw)),
		Soft: dedupe(extract.CommaList(softRaw)),
	}, nil
}

// dedupe drops repeated entries, keeping first occurrence order.
func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
