package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

var (
	cyan  = color.New(color.FgCyan)
	green = color.New(color.FgGreen)
)

func printBrowser(label string, labels []string, rows []domain.TrackRow) {
	fmt.Println()
	boldWhite.Printf("Top songs: %s\n", label)
	fmt.Printf("Windows: %s\n\n", strings.Join(labels, " | "))

	if len(rows) == 0 {
		yellow.Println("No songs match.")
		return
	}
	for i, r := range rows {
		fmt.Printf("%2d. ", i+1)
		white.Print(r.Title)
		fmt.Print(" by ")
		cyan.Println(r.Artist)
		if r.Album != "" {
			fmt.Printf("    %s\n", r.Album)
		}
		if r.URL != "" {
			fmt.Printf("    %s\n", r.URL)
		}
		if r.Features.Estimated {
			yellow.Println("    (audio features estimated)")
		}
	}
}

func printComparison(rows []domain.ComparisonRow) {
	fmt.Println()
	boldWhite.Println("Audio features (normalized mean)")

	group := ""
	for _, r := range rows {
		if r.Group != group {
			group = r.Group
			fmt.Println()
			green.Println(group)
		}
		fmt.Printf("  %-18s %5.2f %s\n", r.Feature, r.Value, bar(r.Value, 30))
	}
	fmt.Println()
}

// bar renders a value in [0,1] as a row of block characters.
func bar(v float64, width int) string {
	n := int(v*float64(width) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}
