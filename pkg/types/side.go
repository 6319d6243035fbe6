package types

const (
	Green  = "#26a69a"
	Red    = "#ef5350"
	Blue   = "#2962ff"
	Orange = "#ff9800"
)

// SideType define side type of order
type SideType string

const (
	SideTypeBuy  = SideType("BUY")
	SideTypeSell = SideType("SELL")
)

func (side SideType) Color() string {
	switch side {
	case SideTypeBuy:
		return Green
	case SideTypeSell:
		return Red
	}

	return "#f0f0f0"
}

// MarkerPosition places sell fills above the bar, everything else below.
func (side SideType) MarkerPosition() MarkerPosition {
	if side == SideTypeSell {
		return MarkerPositionAboveBar
	}
	return MarkerPositionBelowBar
}

func (side SideType) MarkerShape() MarkerShape {
	if side == SideTypeSell {
		return MarkerShapeArrowDown
	}
	return MarkerShapeArrowUp
}
