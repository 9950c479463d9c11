package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// RaidStats shows the raid clock.
type RaidStats interface {
	SetRaid(raid, total time.Duration, raids int)
}

type raidStats struct {
	raidLbl  *LabelWidget
	totalLbl *LabelWidget
	countLbl *LabelWidget
}

// NewRaidStats creates the raid, total and count labels at (row, startCol..startCol+2).
func NewRaidStats(parent *FrameWidget, row, startCol int) RaidStats {
	s := &raidStats{raidLbl: Label(Width(14)), totalLbl: Label(Width(14)), countLbl: Label(Width(10))}
	for i, l := range []*LabelWidget{s.raidLbl, s.totalLbl, s.countLbl} {
		if parent != nil {
			Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(l, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetRaid(0, 0, 0)
	return s
}

func (s *raidStats) SetRaid(raid, total time.Duration, raids int) {
	if s == nil || s.raidLbl == nil {
		return
	}
	s.raidLbl.Configure(Txt("Raid: " + clock(raid)))
	s.totalLbl.Configure(Txt("Total: " + clock(total)))
	s.countLbl.Configure(Txt(fmt.Sprintf("Raids: %d", raids)))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
