package common

// Modifier is a bitmask of held modifier keys supplied alongside pointer input.
type Modifier uint8

const (
	// ModNone means no modifier key is held.
	ModNone Modifier = 0
	// ModControl is set while either Control key is held. Drags pan the view.
	ModControl Modifier = 1 << iota
	// ModShift is set while either Shift key is held. Drags zoom the view.
	ModShift
)

// Has reports whether all bits of flag are set in m.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag == flag && flag != 0
}

// Virtual key codes delivered by Window key callbacks.
// Printable keys use their ASCII values.
const (
	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key9 = 57 // 9 key (ASCII)

	KeyA = 65 // A key (ASCII)
	KeyO = 79 // O key (ASCII)
	KeyP = 80 // P key (ASCII)
	KeyR = 82 // R key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyW = 87 // W key (ASCII)
	KeyZ = 90 // Z key (ASCII)

	KeyEsc   = 256
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265

	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyRightShift   = 344
	KeyRightControl = 345
)
