package progression

import (
	"log"

	"github.com/wikaquest/backend/internal/models"
)

// AttemptResult reports the mastery-ledger outcome of one completion attempt.
type AttemptResult struct {
	Mastered        bool
	NewlyUnlocked   bool
	HighestUnlocked int
	Stats           *models.MasteryStat
}

// ApplyAttempt records one completion attempt against a progress record,
// mutating it in place. Stats always update; the frontier only advances when
// the attempt targets the current highest unlocked level with a perfect score.
//
// Whether the attempt was perfect is recomputed from the counts and OR-ed
// with the client's claim; a disagreement between the two is logged for audit.
func ApplyAttempt(p *models.Progress, level, correct, total int, clientClaimsPerfect bool) AttemptResult {
	stat := p.LevelMastery[level]
	if stat == nil {
		stat = &models.MasteryStat{}
		p.LevelMastery[level] = stat
	}

	stat.Attempts++

	var score float64
	if total > 0 {
		score = 100.0 * float64(correct) / float64(total)
	}
	if score > stat.BestScore {
		stat.BestScore = score
	}

	serverPerfect := total > 0 && correct == total
	if clientClaimsPerfect != serverPerfect {
		log.Printf("[progression] perfect-score mismatch for user %d lesson %q level %d: client=%v recomputed=%v (%d/%d)",
			p.UserID, p.Lesson, level, clientClaimsPerfect, serverPerfect, correct, total)
	}
	perfect := serverPerfect || clientClaimsPerfect

	if perfect {
		stat.PerfectAttempts++
		stat.Mastered = true
	}

	result := AttemptResult{
		Mastered:        stat.Mastered,
		HighestUnlocked: p.HighestUnlocked,
		Stats:           stat,
	}

	if perfect && level == p.HighestUnlocked {
		p.HighestUnlocked = level + 1
		result.NewlyUnlocked = true
		result.HighestUnlocked = p.HighestUnlocked
	}

	return result
}
