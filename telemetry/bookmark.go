package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstBirth        BookmarkType = "first_birth"
	BookmarkBabyBoom          BookmarkType = "baby_boom"
	BookmarkBreedingStall     BookmarkType = "breeding_stall"
	BookmarkPopulationDoubled BookmarkType = "population_doubled"
	BookmarkPopulationCap     BookmarkType = "population_cap"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// stallWindows is how many consecutive windows of collisions without a
// single birth count as a stall.
const stallWindows = 3

// BookmarkDetector detects notable moments in the population's history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	sawBirth       bool
	sawCap         bool
	doublingBase   int // population the next doubling is measured from
	stalledWindows int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstBirth(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationCap(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationDoubled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBreedingStall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkBabyBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstBirth(stats WindowStats) *Bookmark {
	if bd.sawBirth || stats.Births == 0 {
		return nil
	}
	bd.sawBirth = true
	return &Bookmark{
		Type:        BookmarkFirstBirth,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First offspring after %d collisions this window", stats.Collisions),
	}
}

func (bd *BookmarkDetector) checkPopulationCap(stats WindowStats) *Bookmark {
	if bd.sawCap || stats.Dropped == 0 {
		return nil
	}
	bd.sawCap = true
	return &Bookmark{
		Type:        BookmarkPopulationCap,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population cap reached at %d, %d spawns dropped", stats.Population, stats.Dropped),
	}
}

func (bd *BookmarkDetector) checkPopulationDoubled(stats WindowStats) *Bookmark {
	if bd.doublingBase == 0 {
		bd.doublingBase = stats.Population
		return nil
	}
	if stats.Population < 2*bd.doublingBase {
		return nil
	}
	old := bd.doublingBase
	bd.doublingBase = stats.Population
	return &Bookmark{
		Type:        BookmarkPopulationDoubled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population grew from %d to %d", old, stats.Population),
	}
}

func (bd *BookmarkDetector) checkBreedingStall(stats WindowStats) *Bookmark {
	if stats.Collisions == 0 || stats.Births > 0 {
		bd.stalledWindows = 0
		return nil
	}
	bd.stalledWindows++
	if bd.stalledWindows != stallWindows { // trigger once per stall
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBreedingStall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No births in %d windows despite %d collisions (%d lineage blocked)", stallWindows, stats.Collisions, stats.LineageBlocked),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	// Rolling average births
	var total int
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Births) > avg*2.0 && stats.Births >= 5 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
		}
	}
	return nil
}
