package progression

import (
	"math"
	"time"

	"github.com/wikaquest/backend/internal/models"
)

// lifeRegenInterval is how long one life takes to come back.
const lifeRegenInterval = 120 * time.Second

// RegenState is the resolved lives state at a point in time. NextLifeIn is
// seconds until the next life, nil when no regen is running.
type RegenState struct {
	Lives      int
	RegenStart *time.Time
	NextLifeIn *int
}

// RegenerateLives applies elapsed wall-clock time to a regen window. One life
// returns per full interval; reaching the cap clears the window, otherwise
// the window start advances past the intervals already consumed. Timestamps
// without zone information are treated as UTC by the store layer.
func RegenerateLives(lives int, regenStart *time.Time, now time.Time) RegenState {
	if lives >= models.MaxLives || regenStart == nil {
		return RegenState{Lives: lives, RegenStart: regenStart}
	}

	elapsed := now.UTC().Sub(regenStart.UTC()).Seconds()
	if elapsed < 0 {
		// Clock skew; no lives earned yet.
		elapsed = 0
	}

	gained := int(elapsed / lifeRegenInterval.Seconds())
	newLives := lives + gained

	if newLives >= models.MaxLives {
		return RegenState{Lives: models.MaxLives}
	}

	next := int(lifeRegenInterval.Seconds() - math.Mod(elapsed, lifeRegenInterval.Seconds()))
	newStart := regenStart.UTC().Add(time.Duration(gained) * lifeRegenInterval)
	return RegenState{Lives: newLives, RegenStart: &newStart, NextLifeIn: &next}
}

// LoseLife removes one life (floor zero). Dropping below the cap starts a
// regen window at now unless one is already running.
func LoseLife(lives int, regenStart *time.Time, now time.Time) (int, *time.Time) {
	if lives <= 0 {
		return 0, regenStart
	}

	newLives := lives - 1
	if newLives < models.MaxLives && regenStart == nil {
		start := now.UTC()
		return newLives, &start
	}
	return newLives, regenStart
}
