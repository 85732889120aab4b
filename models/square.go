package models

import "fmt"

// BoardSize is the number of squares on a board (10x10 grid)
const BoardSize = 100

// SquareValue builds the two-character square value from a pair of single
// digits: away digit first, home digit second. Board setup and period
// reconciliation MUST both go through this function; if the two sides ever
// computed the ordering independently and diverged, winners would never be
// found.
func SquareValue(awayDigit, homeDigit int) string {
	return fmt.Sprintf("%d%d", awayDigit%10, homeDigit%10)
}

// WinningSquareValue derives the winning square value from a period-ending
// score pair, e.g. away 17 / home 23 -> "73".
func WinningSquareValue(awayScore, homeScore int) string {
	return SquareValue(awayScore%10, homeScore%10)
}

// GridRow returns the row of a grid index. Rows run down the away axis.
func GridRow(index int) int {
	return index / 10
}

// GridColumn returns the column of a grid index. Columns run across the home
// axis.
func GridColumn(index int) int {
	return index % 10
}
