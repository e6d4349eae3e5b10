package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quizfighter/quiz-engine/pkg/games"
)

// matchGames attaches a compatible game template to each question. Questions
// are processed concurrently; each worker writes only its own carrier, and
// results keep their slice position, so completion order never affects
// output order. A store failure for one question degrades to "no match" for
// that question only.
func (p *Pipeline) matchGames(ctx context.Context, carriers []questionCarrier, device games.Device) {
	g := new(errgroup.Group)
	g.SetLimit(p.opts.MaxConcurrent)

	for i := range carriers {
		c := &carriers[i]
		g.Go(func() error {
			candidates, err := p.store.ListGames(ctx)
			if err != nil {
				p.logger.Warn("Game store query failed, question left unmatched",
					"question", c.q.QuestionNumber,
					"error", err)
				return nil
			}

			compatible := make([]games.GameRecord, 0, len(candidates))
			for _, rec := range candidates {
				if rec.Metadata.Device == string(device) && rec.Metadata.QuestionType == string(c.q.Type) {
					compatible = append(compatible, rec)
				}
			}
			if len(compatible) == 0 {
				p.logger.Debug("No compatible game for question",
					"question", c.q.QuestionNumber,
					"type", c.q.Type,
					"device", device)
				return nil
			}

			selected := compatible[p.intn(len(compatible))]
			id := selected.ID
			c.q.GameID = &id
			c.originalConfig = selected.Config
			c.originalCode = selected.Code
			return nil
		})
	}
	_ = g.Wait()
}
