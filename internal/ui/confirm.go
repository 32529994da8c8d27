package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDangerousOperation renders a warning box and requires the user to
// type confirmWord before a destructive command proceeds. Any other input
// declines.
func ConfirmDangerousOperation(title string, warnings []string, disclaimer, confirmWord string) bool {
	width := TerminalWidth()

	lines := []string{
		"",
		warningTitle.Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", title)),
		"",
	}
	for _, warning := range warnings {
		lines = append(lines, valueStyle.Render("   • "+warning))
	}
	lines = append(lines, "")
	if disclaimer != "" {
		lines = append(lines,
			noteStyle.Width(width-12).PaddingLeft(3).Render(disclaimer),
			"")
	}

	fmt.Println(box(lipgloss.DoubleBorder(), WarningColor, width).
		Padding(0, 2).
		Render(strings.Join(lines, "\n")))
	fmt.Println()

	fmt.Print(warningTitle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", confirmWord)))

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Println()
		return false
	}
	fmt.Println()

	if strings.TrimSpace(scanner.Text()) == confirmWord {
		return true
	}

	fmt.Println(subtleStyle.Render("  Operation cancelled."))
	fmt.Println()
	return false
}

// DeleteEntryConfirmation is the pre-worded prompt for removing a paired
// receiver from the entries file.
func DeleteEntryConfirmation(entryTitle, uniqueID string) bool {
	return ConfirmDangerousOperation(
		"REMOVE RECEIVER",
		[]string{
			fmt.Sprintf("This removes %q (%s) from the entries file", entryTitle, uniqueID),
			"The receiver itself is not touched",
			"Pairing it again takes one run of the wizard",
		},
		"",
		"DELETE",
	)
}
