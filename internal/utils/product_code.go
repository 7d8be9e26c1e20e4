package utils

import "strings"

// Seat row labels used by the Tasco order form.
const (
	SeatRowFront = "Tài + Phụ"
	SeatRow2     = "Hàng ghế 2"
	SeatRow3     = "Hàng ghế 3"
	SeatTrunk    = "Cốp"
)

// SeatRowCode maps a seat row selection to its HGxx code. The priority order is
// domain policy carried over from the order form, not derivable from the labels.
func SeatRowCode(rows []string) string {
	has := func(label string) bool {
		for _, r := range rows {
			if r == label {
				return true
			}
		}
		return false
	}

	hasRow1 := has(SeatRowFront)
	hasRow2 := has(SeatRow2)
	hasRow3 := has(SeatRow3)
	hasTrunk := has(SeatTrunk)

	switch {
	case hasRow1 && hasRow2 && hasRow3:
		return "03"
	case hasRow1 && hasRow2:
		return "02"
	case hasTrunk && !hasRow1 && !hasRow2 && !hasRow3:
		return "04"
	default:
		return "01"
	}
}

// FormatModelCode strips leading zeros from a model code (001 -> 1, 010 -> 10).
func FormatModelCode(code string) string {
	if code == "" {
		return "0"
	}
	trimmed := strings.TrimLeft(code, "0")
	if trimmed == "" {
		return code
	}
	return trimmed
}

// BuildProductCode assembles the printable product code D<color>X<model>HG<seat>.
func BuildProductCode(colorCode, modelCode string, seatRows []string) string {
	if colorCode == "" {
		colorCode = "00"
	}
	return "D" + colorCode + "X" + FormatModelCode(modelCode) + "HG" + SeatRowCode(seatRows)
}
