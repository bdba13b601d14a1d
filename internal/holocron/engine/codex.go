package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/holocron/holocron-server/internal/holocron/quest"
	"github.com/holocron/holocron-server/pkg/holocron"
)

// QuestBlocker answers "what is stopping me from doing this quest".
// The quest may be given as a numeric ID or a partial title.
func (e *Engine) QuestBlocker(ctx context.Context, req holocron.BlockerRequest) (*holocron.BlockerReport, error) {
	targetID, err := e.quests.LookupQuestID(ctx, req.Quest)
	if err != nil {
		return nil, err
	}
	if targetID == 0 {
		return &holocron.BlockerReport{
			State:   holocron.BlockerUnknown,
			Message: fmt.Sprintf("Quest not found: %s", req.Quest),
		}, nil
	}

	completed := make(map[int64]bool)
	if req.CharacterGUID != "" {
		history, err := e.characters.CompletedQuests(ctx, req.CharacterGUID)
		if err != nil {
			return nil, err
		}
		completed = history
	}
	for _, id := range req.Completed {
		completed[id] = true
	}

	report := &holocron.BlockerReport{TargetQuestID: targetID}

	if completed[targetID] {
		report.State = holocron.BlockerComplete
		report.Message = "Quest already completed."
		return report, nil
	}

	blocker, err := e.resolver.Solve(ctx, targetID, completed)
	if errors.Is(err, quest.ErrCycle) {
		report.State = holocron.BlockerCycle
		report.Message = "Prerequisite data contains a cycle."
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	if blocker == nil || blocker.QuestID == targetID {
		report.State = holocron.BlockerReady
		report.Message = "All prerequisites met. Ready to start."
		return report, nil
	}

	report.State = holocron.BlockerBlocked
	report.BlockingQuestID = blocker.QuestID
	report.BlockingTitle = blocker.Title
	report.Message = fmt.Sprintf("Missing prerequisite: %s (ID: %d)", blocker.Title, blocker.QuestID)
	return report, nil
}

// CampaignReport evaluates every campaign for every roster character.
func (e *Engine) CampaignReport(ctx context.Context) (*holocron.CampaignReport, error) {
	campaigns, err := e.quests.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}
	roster, err := e.characters.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	completions, err := e.characters.CompletedQuestsByCharacter(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quest history: %w", err)
	}

	matrix := e.resolver.BuildMatrix(ctx, campaigns, roster, completions)
	return &holocron.CampaignReport{
		Campaigns: quest.SummarizeCampaigns(matrix, campaigns),
		Matrix:    matrix,
	}, nil
}
