package engine

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestTimeManagerInfiniteWhenNoClockGiven(t *testing.T) {
	is := is.New(t)
	tm := NewTimeManager(time.Unix(0, 0), true, GoParams{}, 30)
	is.True(tm.Infinite())
}

func TestTimeManagerExplicitInfinite(t *testing.T) {
	is := is.New(t)
	tm := NewTimeManager(time.Unix(0, 0), true, GoParams{Infinite: true, WTimeMs: 10000}, 30)
	is.True(tm.Infinite())
}

func TestTimeManagerMoveTimeIsFixed(t *testing.T) {
	is := is.New(t)
	now := time.Unix(0, 0)
	tm := NewTimeManager(now, true, GoParams{MoveTimeMs: 500}, 30)
	is.Equal(tm.HardDeadline().Sub(now), 470*time.Millisecond)
}

func TestTimeManagerUsesSideToMovesClock(t *testing.T) {
	is := is.New(t)
	now := time.Unix(0, 0)
	params := GoParams{WTimeMs: 160000, BTimeMs: 16000, MovesToGo: 10}

	white := NewTimeManager(now, true, params, 0)
	black := NewTimeManager(now, false, params, 0)

	is.True(!white.HardDeadline().Before(black.HardDeadline()))
}

func TestTimeManagerHardBoundNeverExceedsRemainingClock(t *testing.T) {
	is := is.New(t)
	now := time.Unix(0, 0)
	params := GoParams{WTimeMs: 1000, MovesToGo: 1}
	tm := NewTimeManager(now, true, params, 100)
	is.True(tm.HardDeadline().Sub(now) <= 900*time.Millisecond)
}

func TestShouldStartNextDepthRespectsSoftBound(t *testing.T) {
	is := is.New(t)
	now := time.Unix(0, 0)
	tm := NewTimeManager(now, true, GoParams{WTimeMs: 16000, MovesToGo: 16}, 0)
	is.True(tm.ShouldStartNextDepth(0, 0))
	is.True(!tm.ShouldStartNextDepth(time.Hour, 0))
}
