package snapfit

import (
	"fmt"
	"strings"
	"time"
)

const defaultTitle = "SnapFit Workshop"

// FormatClock renders a duration as m:ss.
func FormatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// HUDLines describes the session as the text overlay shows it, top to bottom.
func HUDLines(s *GameSession) []string {
	if s.State() == StateTitle {
		return titleLines(s)
	}
	title := defaultTitle
	if lvl := s.Level(); lvl != nil && lvl.Name != "" {
		title = lvl.Name
	}
	stats := s.Stats()
	lines := []string{title}

	clock := "Time: " + FormatClock(stats.Elapsed)
	if limit := s.timeLimit(); limit > 0 {
		clock += " / " + FormatClock(limit)
	}
	status := fmt.Sprintf("%s   Parts: %d/%d   Stars: %s",
		clock, s.SnappedCount(), len(s.parts), strings.Repeat("*", stats.Stars))
	if lvl := s.Level(); lvl != nil {
		status += fmt.Sprintf("   Hints: %d/%d", stats.HintsUsed, lvl.Hints)
	}
	lines = append(lines, status)

	if id, ok := s.Selected(); ok {
		sel := "Selected: " + id
		if p, ok := s.Part(id); ok {
			switch {
			case p.IsGrabbed():
				sel += " (Grabbed)"
			case p.IsSnapped():
				sel += " (Snapped)"
			}
		}
		lines = append(lines, sel)
	}
	if fb, ok := s.Feedback(); ok {
		lines = append(lines, fb.Message)
	}
	if h, ok := s.Hint(); ok {
		if h.Located {
			lines = append(lines, fmt.Sprintf("Hint: %s goes to %s at (%.2f, %.2f, %.2f)",
				h.PartID, h.Socket, h.Position.X(), h.Position.Y(), h.Position.Z()))
		} else {
			lines = append(lines, fmt.Sprintf("Hint: %s goes to %s", h.PartID, h.Socket))
		}
	}

	switch s.State() {
	case StateSuccess:
		lines = append(lines, "Level Complete!",
			fmt.Sprintf("Time: %s   Stars: %s", FormatClock(stats.Elapsed), strings.Repeat("*", stats.Stars)))
		if s.HasNextLevel() {
			lines = append(lines, "Press Enter for the next level")
		}
		if len(s.catalog) > 0 {
			lines = append(lines, "Press Esc for level select")
		}
	case StateFail:
		lines = append(lines, "Time's up! Press R to retry")
	case StatePaused:
		lines = append(lines, "Paused")
	}
	return lines
}

// titleLines lists the catalog with the best stored run of each level.
func titleLines(s *GameSession) []string {
	levels := s.Levels()
	if len(levels) == 0 {
		return []string{defaultTitle, "No levels available"}
	}
	lines := []string{defaultTitle, fmt.Sprintf("Press 1-%d to choose a level", min(len(levels), 9))}
	for i, lvl := range levels {
		line := fmt.Sprintf("%d. %s", i+1, lvl.Name)
		if best, err := s.LevelProgress(lvl.ID); err == nil && best.Completed {
			line += fmt.Sprintf("   Best: %s %s", FormatClock(best.BestTime), strings.Repeat("*", best.BestStars))
		}
		lines = append(lines, line)
	}
	return lines
}
