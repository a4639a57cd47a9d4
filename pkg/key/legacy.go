// ABOUTME: Escape sequence tables for the CSI and SS3 keys the decoder recognizes.
// ABOUTME: Final bytes map to keys; CSI digit sequences end in '~'.

package key

// csiKeys maps the final byte of ESC [ X.
var csiKeys = map[byte]KeyType{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

// csiTildeKeys maps the digit of ESC [ N ~.
var csiTildeKeys = map[byte]KeyType{
	'3': KeyDelete,
	'5': KeyPageUp,
	'6': KeyPageDown,
}

// ss3Keys maps the final byte of ESC O X.
var ss3Keys = map[byte]KeyType{
	'H': KeyHome,
	'F': KeyEnd,
}
