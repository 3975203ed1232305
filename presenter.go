package main

import (
	"time"

	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/common"
)

const (
	shiftDuration  = 250 * time.Millisecond
	flashDuration  = 400 * time.Millisecond
	fatalDuration  = 900 * time.Millisecond
	statusDuration = 300 * time.Millisecond
)

// timedPresenter paces the core with fixed animation lengths and keeps just
// enough state for Draw to animate the queue.
type timedPresenter struct {
	clock time.Duration

	shiftStart time.Duration
	flashStart time.Duration
	flashCard  string
	fatalSide  battle.Side
	fatalStart time.Duration
	fatal      bool
}

func newTimedPresenter() *timedPresenter {
	return &timedPresenter{shiftStart: -shiftDuration, flashStart: -flashDuration}
}

func (p *timedPresenter) Update(dt time.Duration) {
	p.clock += dt
}

func (p *timedPresenter) Reset() {
	*p = *newTimedPresenter()
}

func (p *timedPresenter) QueueShift() battle.Wait {
	p.shiftStart = p.clock
	return battle.Delay(shiftDuration)
}

func (p *timedPresenter) CardExecution(card *battle.Card) battle.Wait {
	p.flashStart = p.clock
	p.flashCard = card.Name()
	return battle.Delay(flashDuration)
}

func (p *timedPresenter) FatalHit(side battle.Side) battle.Wait {
	p.fatal = true
	p.fatalSide = side
	p.fatalStart = p.clock
	return battle.Delay(fatalDuration)
}

func (p *timedPresenter) StatusTick(c *battle.Character, kind battle.StatusKind) battle.Wait {
	if kind != battle.StatusBleed {
		return battle.Immediate
	}
	return battle.Delay(statusDuration)
}

// ShiftOffset is the horizontal offset of the sliding queue, starting at one
// slot width and easing to zero.
func (p *timedPresenter) ShiftOffset(slotWidth float32) float32 {
	t := common.Progress(float64(p.clock-p.shiftStart), float64(shiftDuration))
	return common.Lerp(slotWidth, 0, t)
}

// Flash returns the card being executed, if the flash is still running.
func (p *timedPresenter) Flash() (string, bool) {
	if p.clock-p.flashStart >= flashDuration {
		return "", false
	}
	return p.flashCard, true
}

// Fatal reports the side that took a lethal hit while its banner shows.
func (p *timedPresenter) Fatal() (battle.Side, bool) {
	if !p.fatal || p.clock-p.fatalStart >= fatalDuration {
		return 0, false
	}
	return p.fatalSide, true
}
