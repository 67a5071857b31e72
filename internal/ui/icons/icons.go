package icons

const (
	// Entity Icons
	IconCustomEntity = "⚙"
	IconEntity       = "▤"
	IconLookup       = "↗"

	// Utility Icons
	IconSuccess   = "✓"
	IconError     = "⚠"
	IconInfo      = "ℹ"
	IconSelect    = "▸"
	IconBullet    = "•"
	IconSeparator = " │ "
	IconCurrent   = "●"
	IconOther     = "○"
	IconChecked   = "[✓]"
	IconUnchecked = "[ ]"
)

// Checkbox returns the column-selection marker.
func Checkbox(selected bool) string {
	if selected {
		return IconChecked
	}
	return IconUnchecked
}

// EntityIcon marks custom entities in the entity list.
func EntityIcon(custom bool) string {
	if custom {
		return IconCustomEntity
	}
	return IconEntity
}

// EnvironmentMarker marks the current environment in the switcher.
func EnvironmentMarker(current bool) string {
	if current {
		return IconCurrent
	}
	return IconOther
}
