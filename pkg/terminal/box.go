package terminal

import (
	"strings"
	"unicode/utf8"
)

const (
	boxHorizontal       = "─"
	boxHeavyHorizontal  = "━"
	boxHeavyVertical    = "┃"
	boxHeavyTopLeft     = "┏"
	boxHeavyTopRight    = "┓"
	boxHeavyBottomLeft  = "┗"
	boxHeavyBottomRight = "┛"

	headerPadding = 1
)

// DrawSeparator draws a thin horizontal line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(boxHorizontal, width)
}

// DrawHeader draws a heavy-bordered header with title on the left and
// rightText on the right. The box grows to fit its content.
//
//	┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
//	┃ TITLE                     rightText ┃
//	┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, rightText string, width int) string {
	titleLen := utf8.RuneCountInString(title)
	rightLen := utf8.RuneCountInString(rightText)

	width = max(width, titleLen+rightLen+2+2*headerPadding+1)
	innerWidth := width - 2
	contentWidth := innerWidth - 2*headerPadding

	content := PadRight(title, contentWidth)
	if rightText != "" {
		content = title + strings.Repeat(" ", contentWidth-titleLen-rightLen) + rightText
	}

	pad := strings.Repeat(" ", headerPadding)
	border := strings.Repeat(boxHeavyHorizontal, innerWidth)

	return boxHeavyTopLeft + border + boxHeavyTopRight + "\n" +
		boxHeavyVertical + pad + content + pad + boxHeavyVertical + "\n" +
		boxHeavyBottomLeft + border + boxHeavyBottomRight
}
