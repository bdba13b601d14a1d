package quest

import (
	"context"
	"errors"
	"fmt"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// EvaluateCampaign reports one character's progress through a campaign:
// percent done, the next quest in the chain, and whether an out-of-chain
// prerequisite blocks it.
func (r *Resolver) EvaluateCampaign(ctx context.Context, c holocron.Campaign, completed map[int64]bool) holocron.CampaignStatus {
	status := holocron.CampaignStatus{
		CampaignID: c.ID,
		Name:       c.Name,
		State:      holocron.CampaignNotStarted,
		StatusText: "No quest steps recorded.",
		StepLabel:  "-",
	}

	total := len(c.QuestIDs)
	if total == 0 {
		return status
	}

	done := 0
	var nextStep int64
	haveNext := false
	for _, q := range c.QuestIDs {
		if completed[q] {
			done++
		} else if !haveNext {
			nextStep = q
			haveNext = true
		}
	}
	status.Percent = done * 100 / total
	status.StepLabel = fmt.Sprintf("%d/%d", done, total)

	if !haveNext {
		status.State = holocron.CampaignDone
		status.StatusText = "Campaign complete."
		return status
	}

	blocker, err := r.Solve(ctx, nextStep, completed)
	switch {
	case errors.Is(err, ErrCycle):
		status.State = holocron.CampaignLocked
		status.StatusText = "Prerequisite data contains a cycle."
	case blocker != nil && blocker.QuestID != nextStep:
		status.State = holocron.CampaignLocked
		status.NextQuestID = blocker.QuestID
		status.NextQuestTitle = blocker.Title
		status.StatusText = fmt.Sprintf("Missing prerequisite: %s (ID: %d)", blocker.Title, blocker.QuestID)
	default:
		if done > 0 {
			status.State = holocron.CampaignInProgress
		}
		if blocker != nil {
			status.NextQuestID = blocker.QuestID
			status.NextQuestTitle = blocker.Title
			status.StatusText = fmt.Sprintf("Next: %s (ID: %d)", blocker.Title, blocker.QuestID)
		} else {
			status.NextQuestID = nextStep
			status.StatusText = fmt.Sprintf("Next: Quest ID %d", nextStep)
		}
	}

	return status
}

// BuildMatrix evaluates every campaign for every roster character.
// completions maps character GUID to that character's completed set.
func (r *Resolver) BuildMatrix(ctx context.Context, campaigns []holocron.Campaign, roster []holocron.Character, completions map[string]map[int64]bool) []holocron.CharacterCampaigns {
	matrix := make([]holocron.CharacterCampaigns, 0, len(roster))
	for _, char := range roster {
		completed := completions[char.GUID]
		row := holocron.CharacterCampaigns{Character: char}
		for _, c := range campaigns {
			row.Campaigns = append(row.Campaigns, r.EvaluateCampaign(ctx, c, completed))
		}
		matrix = append(matrix, row)
	}
	return matrix
}

// SummarizeCampaigns aggregates a matrix into per-campaign roster cards:
// average percent and the status text of the first character still
// working on it.
func SummarizeCampaigns(matrix []holocron.CharacterCampaigns, campaigns []holocron.Campaign) []holocron.CampaignSummary {
	summaries := make([]holocron.CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		var statuses []holocron.CampaignStatus
		for _, row := range matrix {
			for _, st := range row.Campaigns {
				if st.CampaignID == c.ID {
					statuses = append(statuses, st)
				}
			}
		}

		summary := holocron.CampaignSummary{CampaignID: c.ID, Name: c.Name, Status: "No character data."}
		if len(statuses) > 0 {
			sum := 0
			var inProgress *holocron.CampaignStatus
			for i, st := range statuses {
				sum += st.Percent
				if inProgress == nil && st.State != holocron.CampaignDone {
					inProgress = &statuses[i]
				}
			}
			summary.Progress = sum / len(statuses)
			if inProgress != nil {
				summary.Status = inProgress.StatusText
			} else {
				summary.Status = "Complete on all alts."
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
