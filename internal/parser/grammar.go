package parser

import "regexp"

// Line shapes of the serialization. None of them are anchored to the start
// of the line; a fileID body may be empty, which marks a broken reference.
var (
	anchorPattern          = regexp.MustCompile(`--- !u!(\d+) &(-?\d+)?`)
	strippedAnchorPattern  = regexp.MustCompile(`--- !u!(\d+) &(-?\d+)? stripped`)
	componentRefPattern    = regexp.MustCompile(`  - component: \{fileID: (-?\d+)?\}`)
	ownerRefPattern        = regexp.MustCompile(`  m_GameObject: \{fileID: (-?\d+)?\}`)
	transformParentPattern = regexp.MustCompile(`    m_TransformParent: \{fileID: (-?\d+)?\}`)
	namePattern            = regexp.MustCompile(`  m_Name: (\w+)`)
	legacyRefPattern       = regexp.MustCompile(`  - (-?\d+): \{fileID: (-?\d+)?\}`)
)

// AnchorMarker precedes the identifier on an anchor line.
const AnchorMarker = '&'

// NullFileID is the reference value meaning "no object".
const NullFileID = "0"

// FormatComponentRef renders one line of a game object's component block.
func FormatComponentRef(id string) string {
	return "  - component: {fileID: " + id + "}"
}

// IsLegacy reports whether content uses the old "- <classID>: {fileID: ..}"
// component list layout anywhere.
func IsLegacy(content string) bool {
	return legacyRefPattern.MatchString(content)
}
