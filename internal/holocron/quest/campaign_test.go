package quest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holocron/holocron-server/pkg/holocron"
)

func breachingTheTomb() holocron.Campaign {
	return holocron.Campaign{ID: 1, Name: "Breaching the Tomb", QuestIDs: []int64{47137, 47139, 46247}}
}

func campaignGraph() *fakeGraph {
	return &fakeGraph{
		prereqs: map[int64][]int64{
			47139: {47137},
			46247: {47139},
			// 46247 additionally gated by an out-of-chain intro quest.
			47137: {45727},
		},
		titles: map[int64]string{
			45727: "Uniting the Isles",
			47137: "Armies of Legionfall",
			47139: "Assault on Broken Shore",
			46247: "Begin Construction",
		},
	}
}

func TestEvaluateCampaignComplete(t *testing.T) {
	r := NewResolver(campaignGraph(), nil)

	st := r.EvaluateCampaign(context.Background(), breachingTheTomb(), completedSet(47137, 47139, 46247))
	assert.Equal(t, holocron.CampaignDone, st.State)
	assert.Equal(t, 100, st.Percent)
	assert.Equal(t, "3/3", st.StepLabel)
	assert.Equal(t, "Campaign complete.", st.StatusText)
}

func TestEvaluateCampaignLockedByPrerequisite(t *testing.T) {
	r := NewResolver(campaignGraph(), nil)

	// Nothing done: the first chain step is itself gated behind an
	// out-of-chain quest, so the campaign is locked.
	st := r.EvaluateCampaign(context.Background(), breachingTheTomb(), completedSet())
	assert.Equal(t, holocron.CampaignLocked, st.State)
	assert.Equal(t, int64(45727), st.NextQuestID)
	assert.Equal(t, "Uniting the Isles", st.NextQuestTitle)
	assert.Contains(t, st.StatusText, "Missing prerequisite")
}

func TestEvaluateCampaignInProgress(t *testing.T) {
	r := NewResolver(campaignGraph(), nil)

	st := r.EvaluateCampaign(context.Background(), breachingTheTomb(), completedSet(45727, 47137))
	assert.Equal(t, holocron.CampaignInProgress, st.State)
	assert.Equal(t, 33, st.Percent)
	assert.Equal(t, int64(47139), st.NextQuestID)
	assert.Contains(t, st.StatusText, "Assault on Broken Shore")
}

func TestEvaluateCampaignNotStartedButReady(t *testing.T) {
	r := NewResolver(campaignGraph(), nil)

	st := r.EvaluateCampaign(context.Background(), breachingTheTomb(), completedSet(45727))
	assert.Equal(t, holocron.CampaignNotStarted, st.State)
	assert.Equal(t, int64(47137), st.NextQuestID)
}

func TestEvaluateCampaignEmpty(t *testing.T) {
	r := NewResolver(campaignGraph(), nil)

	st := r.EvaluateCampaign(context.Background(), holocron.Campaign{ID: 2, Name: "Empty"}, completedSet())
	assert.Equal(t, holocron.CampaignNotStarted, st.State)
	assert.Equal(t, "-", st.StepLabel)
	assert.Equal(t, "No quest steps recorded.", st.StatusText)
}

func TestBuildMatrixAndSummarize(t *testing.T) {
	r := NewResolver(campaignGraph(), nil)
	campaigns := []holocron.Campaign{breachingTheTomb()}
	roster := []holocron.Character{
		{GUID: "GUID-1", Name: "MainMage", Realm: "Dornogal", Class: "Mage", Level: 80},
		{GUID: "GUID-2", Name: "AltDruid", Realm: "Dornogal", Class: "Druid", Level: 80},
	}
	completions := map[string]map[int64]bool{
		"GUID-1": completedSet(45727, 47137, 47139, 46247),
		"GUID-2": completedSet(45727, 47137),
	}

	matrix := r.BuildMatrix(context.Background(), campaigns, roster, completions)
	require.Len(t, matrix, 2)
	require.Len(t, matrix[0].Campaigns, 1)
	assert.Equal(t, holocron.CampaignDone, matrix[0].Campaigns[0].State)
	assert.Equal(t, holocron.CampaignInProgress, matrix[1].Campaigns[0].State)

	summaries := SummarizeCampaigns(matrix, campaigns)
	require.Len(t, summaries, 1)
	assert.Equal(t, (100+33)/2, summaries[0].Progress)
	// The first unfinished character's status wins the card text.
	assert.Contains(t, summaries[0].Status, "Next:")
}

func TestSummarizeCampaignsAllDone(t *testing.T) {
	matrix := []holocron.CharacterCampaigns{
		{Campaigns: []holocron.CampaignStatus{{CampaignID: 1, Percent: 100, State: holocron.CampaignDone}}},
	}
	summaries := SummarizeCampaigns(matrix, []holocron.Campaign{{ID: 1, Name: "C"}})
	require.Len(t, summaries, 1)
	assert.Equal(t, "Complete on all alts.", summaries[0].Status)
	assert.Equal(t, 100, summaries[0].Progress)
}

func TestSummarizeCampaignsNoRoster(t *testing.T) {
	summaries := SummarizeCampaigns(nil, []holocron.Campaign{{ID: 1, Name: "C"}})
	require.Len(t, summaries, 1)
	assert.Equal(t, "No character data.", summaries[0].Status)
}
