// Package stealth holds the humanized pacing primitives used between scrape
// and send actions: randomized sleeps, human-like clicking and typing, and
// reading-speed scrolling.
package stealth

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// SleepRandom sleeps for a random duration between min and max milliseconds.
func SleepRandom(minMs, maxMs int) {
	if maxMs < minMs {
		maxMs = minMs
	}
	d := time.Duration(minMs+rand.Intn(maxMs-minMs+1)) * time.Millisecond
	time.Sleep(d)
}

// SleepGaussian sleeps for a duration following a Gaussian distribution;
// most delays cluster around the mean.
func SleepGaussian(meanMs, stdDevMs int) {
	u1 := rand.Float64()
	u2 := rand.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	delay := int(float64(meanMs) + z*float64(stdDevMs))

	minDelay := meanMs - 3*stdDevMs
	maxDelay := meanMs + 3*stdDevMs
	if delay < minDelay {
		delay = minDelay
	} else if delay > maxDelay {
		delay = maxDelay
	}
	if delay > 0 {
		time.Sleep(time.Duration(delay) * time.Millisecond)
	}
}

func ThinkTime() { SleepGaussian(1400, 600) }

// ClickHumanLike scrolls an element into view and clicks a random point
// inside it rather than the exact center.
func ClickHumanLike(p *rod.Page, el *rod.Element) error {
	_ = el.ScrollIntoView()
	SleepGaussian(300, 150)

	shape, err := el.Shape()
	if err != nil || len(shape.Quads) == 0 {
		return el.Click("left", 1)
	}
	quad := shape.Quads[0]
	minX, maxX := quad[0], quad[0]
	minY, maxY := quad[1], quad[1]
	for i := 0; i < len(quad); i += 2 {
		minX = math.Min(minX, quad[i])
		maxX = math.Max(maxX, quad[i])
		minY = math.Min(minY, quad[i+1])
		maxY = math.Max(maxY, quad[i+1])
	}
	targetX := minX + (maxX-minX)*(0.3+rand.Float64()*0.4)
	targetY := minY + (maxY-minY)*(0.3+rand.Float64()*0.4)

	_ = proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMousePressed,
		X:          targetX,
		Y:          targetY,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
	}.Call(p)
	SleepRandom(30, 90)
	_ = proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMouseReleased,
		X:          targetX,
		Y:          targetY,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
	}.Call(p)
	return nil
}

// TypeHumanLike types text with a realistic rhythm: slower starts, pauses at
// punctuation, occasional longer re-reading pauses.
func TypeHumanLike(el *rod.Element, text string) error {
	for i, r := range text {
		if err := el.Input(string(r)); err != nil {
			return err
		}
		baseDelay := 25
		switch {
		case i < 10:
			baseDelay = 40
		case r == ' ' || r == ',' || r == '.':
			baseDelay = 60
		}
		SleepGaussian(baseDelay, 20)
		if rand.Float64() < 0.05 {
			SleepGaussian(300, 150)
		}
	}
	return nil
}

// ScrollHumanLike scrolls through a page in uneven chunks with reading
// pauses.
func ScrollHumanLike(p *rod.Page) {
	steps := 3 + rand.Intn(5)
	for i := 0; i < steps; i++ {
		px := 300 + rand.Intn(500)
		_, _ = p.Eval(`(dy) => window.scrollBy({top: dy, behavior: 'smooth'})`, px)
		SleepGaussian(400, 200)
		if rand.Float64() < 0.4 {
			SleepGaussian(1200, 500)
		}
	}
	if rand.Float64() < 0.4 {
		_, _ = p.Eval(`(dy) => window.scrollBy({top: dy, behavior: 'smooth'})`, -(100 + rand.Intn(120)))
		SleepRandom(300, 700)
	}
}

// InActiveWindow enforces the configured active-hours window.
func InActiveWindow(start, end string) bool {
	now := time.Now()
	s, _ := time.Parse("15:04", start)
	e, _ := time.Parse("15:04", end)
	startToday := time.Date(now.Year(), now.Month(), now.Day(), s.Hour(), s.Minute(), 0, 0, now.Location())
	endToday := time.Date(now.Year(), now.Month(), now.Day(), e.Hour(), e.Minute(), 0, 0, now.Location())
	return now.After(startToday) && now.Before(endToday)
}
